package table

import (
	"maps"
	"slices"

	"GuandanClient/internal/card"
	"GuandanClient/internal/game/event"
	"GuandanClient/internal/game/tribute"
)

type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseGame     Phase = "game"
	PhaseHandOver Phase = "hand_over"
	PhaseGameOver Phase = "game_over"
)

// Settings 房间设置 + 展示选项
type Settings struct {
	CardBack       string       `json:"cardBack"`
	WildCards      bool         `json:"wildCards"`
	TrumpSuit      card.Suit    `json:"trumpSuit"`
	StartingLevels [4]card.Rank `json:"startingLevels"`
}

func DefaultSettings() Settings {
	return Settings{
		CardBack:       "red",
		WildCards:      true,
		TrumpSuit:      card.SuitHearts,
		StartingLevels: [4]card.Rank{card.Rank2, card.Rank2, card.Rank2, card.Rank2},
	}
}

// SettingsFrom merges the server's fields over the defaults, never over stale settings.
func SettingsFrom(p event.SettingsPatch) Settings {
	s := DefaultSettings()
	if p.CardBack.Set && p.CardBack.Value != "" {
		s.CardBack = p.CardBack.Value
	}
	if p.WildCards.Set {
		s.WildCards = p.WildCards.Value
	}
	if p.TrumpSuit.Set && p.TrumpSuit.Value != card.SuitNone {
		s.TrumpSuit = p.TrumpSuit.Value
	}
	if p.StartingLevels.Set {
		s.StartingLevels = p.StartingLevels.Value
	}
	return s
}

type GameOverSummary struct {
	WinType     string   `json:"winType,omitempty"`
	WinningTeam []string `json:"winningTeam,omitempty"`
	LevelUp     int      `json:"levelUp,omitempty"`
}

// Table 客户端视角下的整桌状态，只由 reducer 写入
type Table struct {
	RoomID string `json:"roomId,omitempty"`
	Phase  Phase  `json:"phase"`

	Seats       event.Seats          `json:"seats"`
	ReadyStates map[string]bool      `json:"readyStates"`
	Levels      map[string]card.Rank `json:"levels"`
	Teams       event.Teams          `json:"teams"`
	Settings    Settings             `json:"settings"`
	LevelRank   card.Rank            `json:"levelRank"`

	// 每轮状态，离开 game 阶段时清空
	CurrentTurnPlayer string        `json:"currentTurnPlayer,omitempty"`
	LastPlay          *event.Play   `json:"lastPlay,omitempty"`
	LastPlayType      string        `json:"lastPlayType,omitempty"`
	CanEndRound       bool          `json:"canEndRound"`
	PassedPlayers     []string      `json:"passedPlayers"`
	Tribute           tribute.State `json:"tribute"`

	Hands       event.Hands        `json:"handsByPlayer"`
	FinishOrder []string           `json:"finishOrder"`
	Result      *event.RoundResult `json:"result,omitempty"`
	GameOver    *GameOverSummary   `json:"gameOver,omitempty"`
}

// New returns the state of a client that has not joined a room yet.
func New() Table {
	return Table{
		Phase:     PhaseLobby,
		Settings:  DefaultSettings(),
		LevelRank: card.Rank2,
		Teams:     event.Teams{{}, {}},
		Tribute:   tribute.Idle(),
	}
}

func (t Table) CardConfig() card.Config {
	return card.Config{
		LevelRank: t.LevelRank,
		TrumpSuit: t.Settings.TrumpSuit,
		WildCards: t.Settings.WildCards,
	}
}

// ResetRound 清空回合内字段（出牌、轮次、过牌、进贡）
func (t *Table) ResetRound() {
	t.CurrentTurnPlayer = ""
	t.LastPlay = nil
	t.LastPlayType = ""
	t.CanEndRound = false
	t.PassedPlayers = nil
	t.Tribute = tribute.Idle()
}

// EnterPhase switches phase and drops whatever the phase being left owned.
// Staying in the same phase keeps the round fields.
func (t *Table) EnterPhase(p Phase) {
	if t.Phase != p {
		t.ResetRound()
	}
	t.Phase = p
}

// Clone 深拷贝，保证 reducer 不修改旧状态
func (t Table) Clone() Table {
	c := t
	c.ReadyStates = maps.Clone(t.ReadyStates)
	c.Levels = maps.Clone(t.Levels)
	c.Teams = CloneTeams(t.Teams)
	c.PassedPlayers = slices.Clone(t.PassedPlayers)
	c.Tribute = t.Tribute.Clone()
	c.Hands = CloneHands(t.Hands)
	c.FinishOrder = slices.Clone(t.FinishOrder)
	if t.LastPlay != nil {
		lp := *t.LastPlay
		lp.Cards = slices.Clone(lp.Cards)
		c.LastPlay = &lp
	}
	if t.Result != nil {
		r := *t.Result
		r.Levels = maps.Clone(r.Levels)
		r.WinningTeam = slices.Clone(r.WinningTeam)
		if r.Teams != nil {
			teams := CloneTeams(*r.Teams)
			r.Teams = &teams
		}
		if r.Seats != nil {
			seats := *r.Seats
			r.Seats = &seats
		}
		c.Result = &r
	}
	if t.GameOver != nil {
		g := *t.GameOver
		g.WinningTeam = slices.Clone(g.WinningTeam)
		c.GameOver = &g
	}
	return c
}

func CloneTeams(t event.Teams) event.Teams {
	return event.Teams{slices.Clone(t[0]), slices.Clone(t[1])}
}

func CloneHands(h event.Hands) event.Hands {
	if h == nil {
		return nil
	}
	out := make(event.Hands, len(h))
	for p, cards := range h {
		out[p] = slices.Clone(cards)
	}
	return out
}

// TeamsFromSeats 座位 0/2 为 A 队，1/3 为 B 队
func TeamsFromSeats(seats event.Seats) event.Teams {
	teams := event.Teams{{}, {}}
	for i, p := range seats {
		if p != "" {
			teams[i%2] = append(teams[i%2], p)
		}
	}
	return teams
}
