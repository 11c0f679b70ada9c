package tribute

import (
	"testing"

	"GuandanClient/internal/card"
	"GuandanClient/internal/game/event"

	"github.com/stretchr/testify/assert"
)

var single = []event.TributePair{{From: "Bob", To: "Alice"}}

var double = []event.TributePair{
	{From: "Bob", To: "Alice"},
	{From: "Dave", To: "Carol"},
}

func TestIdleHasNoActions(t *testing.T) {
	s := Idle()
	assert.False(t, s.Active())
	assert.Equal(t, ActionNone, s.Pending("Bob"))
	assert.False(t, State{}.Active(), "zero value is idle")
}

func TestPayGuard(t *testing.T) {
	s := Start(single)
	assert.Equal(t, StepPay, s.Step)

	assert.True(t, s.CanPay("Bob"))
	assert.False(t, s.CanPay("Alice"), "receiver never pays")
	assert.False(t, s.CanPay("Carol"), "not part of the exchange")
	assert.False(t, s.CanReturn("Alice"), "returns wait for the return step")
	assert.Equal(t, ActionPay, s.Pending("Bob"))

	to, ok := s.PayTarget("Bob")
	assert.True(t, ok)
	assert.Equal(t, "Alice", to)
}

func TestSinglePayMovesToReturn(t *testing.T) {
	s := Start(single)
	s = s.Apply(event.TributeSnapshot{Paid: map[string]card.Card{"Bob": "2S"}})

	assert.Equal(t, StepReturn, s.Step)
	assert.False(t, s.CanPay("Bob"), "already paid")
	assert.True(t, s.CanReturn("Alice"))
	assert.Equal(t, ActionReturn, s.Pending("Alice"))

	back, _ := s.ReturnTarget("Alice")
	assert.Equal(t, "Bob", back)
}

func TestDoubleTributeWaitsForEveryPayer(t *testing.T) {
	s := Start(double)
	s = s.Apply(event.TributeSnapshot{Paid: map[string]card.Card{"Bob": "2S"}})
	assert.Equal(t, StepPay, s.Step)
	assert.True(t, s.CanPay("Dave"))
	assert.False(t, s.CanPay("Bob"))

	s = s.Apply(event.TributeSnapshot{Paid: map[string]card.Card{"Dave": "AH"}})
	assert.Equal(t, StepReturn, s.Step)
	assert.Equal(t, map[string]card.Card{"Bob": "2S", "Dave": "AH"}, s.Paid)

	s = s.PromptReturn(event.TributeSnapshot{Returned: map[string]card.Card{"Alice": "3C"}})
	assert.Equal(t, StepReturn, s.Step, "still return until all returns are in")
	assert.False(t, s.CanReturn("Alice"))
	assert.True(t, s.CanReturn("Carol"))

	s = s.Apply(event.TributeSnapshot{Returned: map[string]card.Card{"Carol": "4D"}})
	assert.Equal(t, StepDone, s.Step)
	assert.Equal(t, ActionNone, s.Pending("Carol"))

	s = s.Complete()
	assert.Equal(t, Idle(), s)
}

func TestPromptReturnForcesReturnStep(t *testing.T) {
	s := Start(single).PromptReturn(event.TributeSnapshot{})
	assert.Equal(t, StepReturn, s.Step)
	assert.True(t, s.CanReturn("Alice"))
}

func TestExplicitStepFromServer(t *testing.T) {
	s := Start(double).Apply(event.TributeSnapshot{Step: event.Some("return")})
	assert.Equal(t, StepReturn, s.Step)

	// 无效步骤被忽略
	s = Start(single).Apply(event.TributeSnapshot{Step: event.Some("bogus")})
	assert.Equal(t, StepPay, s.Step)
}

func TestUpdateWhileIdleAdoptsSnapshot(t *testing.T) {
	s := Idle().Apply(event.TributeSnapshot{
		Tributes: event.Some(single),
		Paid:     map[string]card.Card{},
	})
	assert.Equal(t, StepPay, s.Step)
	assert.True(t, s.CanPay("Bob"))
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	s := Start(single)
	_ = s.Apply(event.TributeSnapshot{Paid: map[string]card.Card{"Bob": "2S"}})
	assert.Empty(t, s.Paid)
	assert.Equal(t, StepPay, s.Step)
}

func TestApplyIsIdempotent(t *testing.T) {
	snap := event.TributeSnapshot{Paid: map[string]card.Card{"Bob": "2S"}}
	once := Start(double).Apply(snap)
	twice := once.Apply(snap)
	assert.Equal(t, once, twice)
}
