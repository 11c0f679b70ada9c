package engine

import (
	"time"

	"GuandanClient/internal/card"
	"GuandanClient/internal/game/table"
	"GuandanClient/internal/game/tribute"
)

// Notice 服务端 error 事件，只展示不改状态
type Notice struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type HandCard struct {
	Slot     uint64    `json:"slot"`
	Card     card.Card `json:"card"`
	Label    string    `json:"label"`
	IsTrump  bool      `json:"isTrump"`
	IsWild   bool      `json:"isWild"`
	Selected bool      `json:"selected"`
}

// PlayerView 座位上每个玩家的概况
type PlayerView struct {
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Team      int    `json:"team"`
	Level     string `json:"level"`
	Ready     bool   `json:"ready"`
	Passed    bool   `json:"passed"`
	CardsLeft int    `json:"cardsLeft"`
}

type TributeView struct {
	Step    tribute.Step   `json:"step"`
	Pending tribute.Action `json:"pending"`
	Target  string         `json:"target,omitempty"`
}

// Snapshot is what the UI renders. Table is a private copy.
type Snapshot struct {
	Version    uint64       `json:"version"`
	Self       string       `json:"self"`
	Table      table.Table  `json:"table"`
	Hand       []HandCard   `json:"hand"`
	Players    []PlayerView `json:"players"`
	AllReady   bool         `json:"allReady"`
	PlayLabel  string       `json:"playLabel,omitempty"`
	Tribute    TributeView  `json:"tribute"`
	TeamLevels [2]string    `json:"teamLevels"`
	IsHost     bool         `json:"isHost"`
	MyTurn     bool         `json:"myTurn"`
	Notice     *Notice      `json:"notice,omitempty"`
}

func (e *Engine) buildSnapshot() Snapshot {
	cfg := e.table.CardConfig()
	slots := e.hand.Slots()
	hand := make([]HandCard, len(slots))
	for i, s := range slots {
		cls := card.Classify(s.Card, cfg)
		hand[i] = HandCard{
			Slot:     s.ID,
			Card:     s.Card,
			Label:    card.Label(s.Card),
			IsTrump:  cls.IsTrump,
			IsWild:   cls.IsWild,
			Selected: e.hand.IsSelected(i),
		}
	}

	tv := TributeView{Step: e.table.Tribute.Step, Pending: e.table.Tribute.Pending(e.self)}
	switch tv.Pending {
	case tribute.ActionPay:
		tv.Target, _ = e.table.Tribute.PayTarget(e.self)
	case tribute.ActionReturn:
		tv.Target, _ = e.table.Tribute.ReturnTarget(e.self)
	}

	players := make([]PlayerView, 0, len(e.table.Seats))
	for _, name := range e.table.Players() {
		seat, _ := e.table.SeatOf(name)
		team, _ := e.table.TeamOf(name)
		level := card.Rank2
		if l, ok := e.table.Levels[name]; ok {
			level = l
		}
		players = append(players, PlayerView{
			Name:      name,
			Seat:      seat,
			Team:      team,
			Level:     level.String(),
			Ready:     e.table.IsReady(name),
			Passed:    e.table.HasPassed(name),
			CardsLeft: e.table.HandCount(name),
		})
	}

	playType := e.table.LastPlayType
	if playType == "" && e.table.LastPlay != nil {
		playType = e.table.LastPlay.HandType
	}

	var notice *Notice
	if e.notice != nil {
		n := *e.notice
		notice = &n
	}

	return Snapshot{
		Version:    e.version,
		Self:       e.self,
		Table:      e.table.Clone(),
		Hand:       hand,
		Players:    players,
		AllReady:   e.table.AllReady(),
		PlayLabel:  card.HandTypeLabel(playType),
		Tribute:    tv,
		TeamLevels: e.table.TeamLevels(),
		IsHost:     e.self != "" && e.table.IsHost(e.self),
		MyTurn:     e.self != "" && e.table.CurrentTurnPlayer == e.self,
		Notice:     notice,
	}
}
