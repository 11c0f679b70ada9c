package table

import (
	"slices"

	"GuandanClient/internal/card"
)

// Players 已入座玩家（按座位顺序）
func (t Table) Players() []string {
	out := make([]string, 0, len(t.Seats))
	for _, p := range t.Seats {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (t Table) SeatOf(player string) (int, bool) {
	if player == "" {
		return -1, false
	}
	i := slices.Index(t.Seats[:], player)
	return i, i >= 0
}

// TeamOf returns 0 for team A, 1 for team B.
func (t Table) TeamOf(player string) (int, bool) {
	for i, team := range t.Teams {
		if slices.Contains(team, player) {
			return i, true
		}
	}
	return -1, false
}

// IsHost 0 号座位为房主
func (t Table) IsHost(player string) bool {
	return player != "" && t.Seats[0] == player
}

func (t Table) IsReady(player string) bool {
	return t.ReadyStates[player]
}

func (t Table) AllReady() bool {
	players := t.Players()
	if len(players) == 0 {
		return false
	}
	for _, p := range players {
		if !t.ReadyStates[p] {
			return false
		}
	}
	return true
}

func (t Table) HasPassed(player string) bool {
	return slices.Contains(t.PassedPlayers, player)
}

func (t Table) HandCount(player string) int {
	return len(t.Hands[player])
}

// TeamLevels 每队级别取队内最低
func (t Table) TeamLevels() [2]string {
	var out [2]string
	for i, team := range t.Teams {
		lvl, ok := card.TeamLevel(t.Levels, team)
		if !ok {
			out[i] = "-"
			continue
		}
		out[i] = lvl.String()
	}
	return out
}
