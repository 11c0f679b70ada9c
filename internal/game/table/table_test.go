package table

import (
	"testing"

	"GuandanClient/internal/card"
	"GuandanClient/internal/game/event"
	"GuandanClient/internal/game/tribute"

	"github.com/stretchr/testify/assert"
)

func TestSettingsFromMergesOverDefaults(t *testing.T) {
	assert.Equal(t, DefaultSettings(), SettingsFrom(event.SettingsPatch{}))

	s := SettingsFrom(event.SettingsPatch{
		Present:   true,
		WildCards: event.Some(false),
		TrumpSuit: event.Some(card.SuitSpades),
	})
	assert.False(t, s.WildCards)
	assert.Equal(t, card.SuitSpades, s.TrumpSuit)
	assert.Equal(t, "red", s.CardBack, "missing fields fall back to defaults")
	assert.Equal(t, [4]card.Rank{card.Rank2, card.Rank2, card.Rank2, card.Rank2}, s.StartingLevels)
}

func TestEnterPhaseResetsRoundFields(t *testing.T) {
	tb := New()
	tb.Phase = PhaseGame
	tb.CurrentTurnPlayer = "Alice"
	tb.LastPlay = &event.Play{Player: "Alice", Cards: []card.Card{"AH"}, HandType: "single"}
	tb.PassedPlayers = []string{"Bob"}
	tb.CanEndRound = true
	tb.Tribute = tribute.Start([]event.TributePair{{From: "Bob", To: "Alice"}})

	tb.EnterPhase(PhaseHandOver)

	assert.Equal(t, PhaseHandOver, tb.Phase)
	assert.Empty(t, tb.CurrentTurnPlayer)
	assert.Nil(t, tb.LastPlay)
	assert.Empty(t, tb.PassedPlayers)
	assert.False(t, tb.CanEndRound)
	assert.Equal(t, tribute.Idle(), tb.Tribute)
}

func TestEnterSamePhaseKeepsRoundFields(t *testing.T) {
	tb := New()
	tb.Phase = PhaseGame
	tb.CurrentTurnPlayer = "Alice"
	tb.EnterPhase(PhaseGame)
	assert.Equal(t, "Alice", tb.CurrentTurnPlayer)
}

func TestCloneIsDeep(t *testing.T) {
	tb := New()
	tb.Levels = map[string]card.Rank{"Alice": card.Rank2}
	tb.Hands = event.Hands{"Alice": {"AH", "2S"}}
	tb.Teams = event.Teams{{"Alice"}, {"Bob"}}
	tb.FinishOrder = []string{"Alice"}
	tb.LastPlay = &event.Play{Player: "Alice", Cards: []card.Card{"AH"}}
	tb.Result = &event.RoundResult{Levels: map[string]card.Rank{"Alice": card.Rank3}}

	c := tb.Clone()
	c.Levels["Alice"] = card.RankK
	c.Hands["Alice"][0] = "3C"
	c.Teams[0][0] = "Zed"
	c.FinishOrder[0] = "Zed"
	c.LastPlay.Cards[0] = "3C"
	c.Result.Levels["Alice"] = card.RankA

	assert.Equal(t, card.Rank2, tb.Levels["Alice"])
	assert.Equal(t, card.Card("AH"), tb.Hands["Alice"][0])
	assert.Equal(t, "Alice", tb.Teams[0][0])
	assert.Equal(t, "Alice", tb.FinishOrder[0])
	assert.Equal(t, card.Card("AH"), tb.LastPlay.Cards[0])
	assert.Equal(t, card.Rank3, tb.Result.Levels["Alice"])
}

func TestTeamsFromSeats(t *testing.T) {
	teams := TeamsFromSeats(event.Seats{"Alice", "Bob", "", "Dave"})
	assert.Equal(t, event.Teams{{"Alice"}, {"Bob", "Dave"}}, teams)
}

func TestDerived(t *testing.T) {
	tb := New()
	tb.Seats = event.Seats{"Alice", "Bob", "Carol", ""}
	tb.Teams = TeamsFromSeats(tb.Seats)
	tb.ReadyStates = map[string]bool{"Alice": true, "Bob": true}
	tb.Levels = map[string]card.Rank{"Alice": card.Rank5, "Carol": card.Rank4, "Bob": card.RankJ}
	tb.PassedPlayers = []string{"Bob"}

	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, tb.Players())
	assert.True(t, tb.IsHost("Alice"))
	assert.False(t, tb.IsHost("Bob"))
	assert.False(t, tb.AllReady())
	tb.ReadyStates["Carol"] = true
	assert.True(t, tb.AllReady())

	seat, ok := tb.SeatOf("Carol")
	assert.True(t, ok)
	assert.Equal(t, 2, seat)
	_, ok = tb.SeatOf("")
	assert.False(t, ok)

	team, _ := tb.TeamOf("Bob")
	assert.Equal(t, 1, team)
	assert.True(t, tb.HasPassed("Bob"))
	assert.Equal(t, [2]string{"4", "J"}, tb.TeamLevels())

	cfg := tb.CardConfig()
	assert.Equal(t, card.Config{LevelRank: card.Rank2, TrumpSuit: card.SuitHearts, WildCards: true}, cfg)
}
