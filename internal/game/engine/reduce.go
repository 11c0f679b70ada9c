package engine

import (
	"maps"
	"slices"

	"GuandanClient/internal/game/event"
	"GuandanClient/internal/game/table"
	"GuandanClient/internal/game/tribute"
)

// Reduce folds one server event into the table and returns the new state.
// It never mutates prior and never fails: unknown or misdirected events
// return an unchanged copy. self is the local player's identity.
func Reduce(self string, prior table.Table, ev event.Event) table.Table {
	t := prior.Clone()

	switch e := ev.(type) {
	case event.RoomJoined:
		next := table.New()
		next.RoomID = e.RoomID
		next.Seats = e.Seats.Value
		next.Levels = e.Levels.Value
		next.Teams = e.Teams.Or(table.TeamsFromSeats(next.Seats))
		next.Settings = table.SettingsFrom(e.Settings)
		next.LevelRank = e.LevelRank.Or(next.LevelRank)
		return next

	case event.RoomUpdate:
		// 只合并消息里出现的字段
		if e.Seats.Set {
			t.Seats = e.Seats.Value
		}
		// readyStates 出现时整体替换，离开的玩家不再保留
		if e.ReadyStates.Set {
			t.ReadyStates = maps.Clone(e.ReadyStates.Value)
		}
		if e.Levels.Set {
			t.Levels = maps.Clone(e.Levels.Value)
		}
		if e.Teams.Set {
			t.Teams = table.CloneTeams(e.Teams.Value)
		}
		if e.Settings.Present {
			t.Settings = table.SettingsFrom(e.Settings)
		}

	case event.DealHand:
		if e.ForPlayer != "" && e.ForPlayer != self {
			return t
		}
		if self == "" {
			return t
		}
		if t.Hands == nil {
			t.Hands = make(event.Hands)
		}
		t.Hands[self] = slices.Clone(e.Hand)

	case event.GameStarted:
		t.EnterPhase(table.PhaseGame)
		t.CurrentTurnPlayer = e.CurrentTurnPlayer
		t.LastPlay = nil
		t.LastPlayType = ""
		t.CanEndRound = false
		t.PassedPlayers = nil
		t.FinishOrder = nil
		t.Result = nil
		t.GameOver = nil
		t.Levels = e.Levels.Value
		t.Teams = e.Teams.Or(table.TeamsFromSeats(t.Seats))
		t.Settings = table.SettingsFrom(e.Settings)
		if e.LevelRank.Set {
			t.LevelRank = e.LevelRank.Value
		}
		if e.HandsByPlayer.Set {
			t.Hands = e.HandsByPlayer.Value
		}

	case event.GameUpdate:
		applyGameUpdate(&t, e)

	case event.HandOver:
		t.EnterPhase(table.PhaseHandOver)
		applyResult(&t, e.Result)

	case event.RoundSummary:
		t.EnterPhase(table.PhaseHandOver)
		t.FinishOrder = appendUnique(t.FinishOrder, e.FinishOrder)
		applyResult(&t, e.Result)

	case event.TributeStart:
		if t.Phase == table.PhaseGameOver {
			return t
		}
		t.EnterPhase(table.PhaseGame)
		if e.RoomID != "" && t.RoomID == "" {
			t.RoomID = e.RoomID
		}
		t.Tribute = tribute.Start(e.Tributes)

	case event.TributeUpdate:
		if t.Phase == table.PhaseGameOver {
			return t
		}
		t.Tribute = t.Tribute.Apply(e.State)

	case event.TributePromptReturn:
		if t.Phase == table.PhaseGameOver {
			return t
		}
		t.Tribute = t.Tribute.PromptReturn(e.State)

	case event.TributeComplete:
		if t.Phase == table.PhaseGameOver {
			return t
		}
		t.Tribute = t.Tribute.Complete()
		if e.HandsByPlayer != nil {
			t.Hands = e.HandsByPlayer
		}

	case event.GameOver:
		t.EnterPhase(table.PhaseGameOver)
		t.FinishOrder = slices.Clone(e.FinishOrder)
		t.Hands = e.HandsByPlayer
		t.Levels = e.Levels.Value
		t.Teams = e.Teams.Or(table.TeamsFromSeats(t.Seats))
		t.Settings = table.SettingsFrom(e.Settings)
		if e.LevelRank.Set {
			t.LevelRank = e.LevelRank.Value
		}
		t.Result = nil
		t.GameOver = &table.GameOverSummary{
			WinType:     e.WinType,
			WinningTeam: slices.Clone(e.WinningTeam),
			LevelUp:     e.LevelUp,
		}

	case event.Error:
		// 错误只提示，不改状态
	}
	return t
}

func applyGameUpdate(t *table.Table, e event.GameUpdate) {
	if e.CurrentTurnPlayer.Set {
		t.CurrentTurnPlayer = e.CurrentTurnPlayer.Value
	}
	if e.LastPlay.Set {
		t.LastPlay = e.LastPlay.Value
	}
	if e.CanEndRound.Set {
		t.CanEndRound = e.CanEndRound.Value
	}
	if e.PassedPlayers.Set {
		t.PassedPlayers = e.PassedPlayers.Value
	}
	if e.LastPlayType.Set {
		t.LastPlayType = e.LastPlayType.Value
	}
	if e.Levels.Set {
		t.Levels = e.Levels.Value
	}
	if e.Teams.Set {
		t.Teams = e.Teams.Value
	}
	if e.Settings.Present {
		t.Settings = table.SettingsFrom(e.Settings)
	}
	if e.LevelRank.Set {
		t.LevelRank = e.LevelRank.Value
	}
	// 服务端对所有手牌是权威的：整体替换
	if e.HandsByPlayer.Set {
		t.Hands = e.HandsByPlayer.Value
	}
	if e.FinishOrder.Set {
		t.FinishOrder = appendUnique(t.FinishOrder, e.FinishOrder.Value)
	}
}

func applyResult(t *table.Table, r event.RoundResult) {
	res := r
	t.Result = &res
	if r.Levels != nil {
		t.Levels = r.Levels
	}
	if r.Teams != nil {
		t.Teams = table.CloneTeams(*r.Teams)
	}
	if r.Seats != nil {
		t.Seats = *r.Seats
	}
}

// appendUnique keeps finishOrder append-only: known players stay where they are.
func appendUnique(order, incoming []string) []string {
	for _, p := range incoming {
		if p != "" && !slices.Contains(order, p) {
			order = append(order, p)
		}
	}
	return order
}
