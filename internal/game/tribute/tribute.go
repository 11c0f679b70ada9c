// Package tribute tracks the tribute exchange that runs between the deal and the first lead.
package tribute

import (
	"maps"
	"slices"

	"GuandanClient/internal/card"
	"GuandanClient/internal/game/event"
)

type Step string

const (
	StepIdle   Step = "idle"
	StepPay    Step = "pay"
	StepReturn Step = "return"
	StepDone   Step = "done"
)

func parseStep(s string) (Step, bool) {
	switch st := Step(s); st {
	case StepIdle, StepPay, StepReturn, StepDone:
		return st, true
	}
	return "", false
}

// Action 本地玩家当前可执行的进贡操作
type Action string

const (
	ActionNone   Action = ""
	ActionPay    Action = "pay_tribute"
	ActionReturn Action = "return_tribute"
)

type State struct {
	Step     Step                 `json:"step"`
	Tributes []event.TributePair  `json:"tributes"`
	Paid     map[string]card.Card `json:"paid"`
	Returned map[string]card.Card `json:"returned"`
}

func Idle() State {
	return State{Step: StepIdle}
}

// Start 进入进贡阶段：tribute_start
func Start(pairs []event.TributePair) State {
	return State{
		Step:     StepPay,
		Tributes: slices.Clone(pairs),
		Paid:     make(map[string]card.Card),
		Returned: make(map[string]card.Card),
	}
}

func (s State) Active() bool {
	switch s.Step {
	case StepPay, StepReturn, StepDone:
		return true
	}
	return false
}

func (s State) Clone() State {
	return State{
		Step:     s.Step,
		Tributes: slices.Clone(s.Tributes),
		Paid:     maps.Clone(s.Paid),
		Returned: maps.Clone(s.Returned),
	}
}

// Apply folds a tribute_update snapshot. Paid/returned entries are only ever added;
// an explicit step from the server wins, otherwise the step is derived from what is in.
func (s State) Apply(snap event.TributeSnapshot) State {
	next := s.Clone()
	if !next.Active() {
		next = Start(nil)
	}
	if snap.Tributes.Set {
		next.Tributes = slices.Clone(snap.Tributes.Value)
	}
	if next.Paid == nil {
		next.Paid = make(map[string]card.Card)
	}
	if next.Returned == nil {
		next.Returned = make(map[string]card.Card)
	}
	maps.Copy(next.Paid, snap.Paid)
	maps.Copy(next.Returned, snap.Returned)

	if step, ok := parseStep(snap.Step.Value); snap.Step.Set && ok && step != StepIdle {
		next.Step = step
	}
	return next.advance()
}

// PromptReturn 服务端提示收贡方还贡
func (s State) PromptReturn(snap event.TributeSnapshot) State {
	next := s.Apply(snap)
	if next.Step == StepPay {
		next.Step = StepReturn
	}
	return next.advance()
}

// Complete ends the exchange; only tribute_complete gets us back to idle.
func (s State) Complete() State {
	return Idle()
}

func (s State) advance() State {
	if len(s.Tributes) == 0 {
		return s
	}
	if s.Step == StepPay && s.allPaid() {
		s.Step = StepReturn
	}
	if s.Step == StepReturn && s.allReturned() {
		s.Step = StepDone
	}
	return s
}

func (s State) allPaid() bool {
	for _, p := range s.Tributes {
		if _, ok := s.Paid[p.From]; !ok {
			return false
		}
	}
	return true
}

func (s State) allReturned() bool {
	for _, p := range s.Tributes {
		if _, ok := s.Returned[p.To]; !ok {
			return false
		}
	}
	return true
}

// CanPay: pay step, me is a payer, and I have not paid yet.
func (s State) CanPay(me string) bool {
	if s.Step != StepPay || me == "" {
		return false
	}
	if _, paid := s.Paid[me]; paid {
		return false
	}
	_, ok := s.PayTarget(me)
	return ok
}

// CanReturn: return step, me is a receiver, and I have not returned yet.
func (s State) CanReturn(me string) bool {
	if s.Step != StepReturn || me == "" {
		return false
	}
	if _, done := s.Returned[me]; done {
		return false
	}
	_, ok := s.ReturnTarget(me)
	return ok
}

func (s State) Pending(me string) Action {
	switch {
	case s.CanPay(me):
		return ActionPay
	case s.CanReturn(me):
		return ActionReturn
	}
	return ActionNone
}

// PayTarget 我要进贡给谁
func (s State) PayTarget(me string) (string, bool) {
	for _, p := range s.Tributes {
		if p.From == me {
			return p.To, true
		}
	}
	return "", false
}

// ReturnTarget 我要还贡给谁
func (s State) ReturnTarget(me string) (string, bool) {
	for _, p := range s.Tributes {
		if p.To == me {
			return p.From, true
		}
	}
	return "", false
}
