package protocol

import (
	"GuandanClient/internal/card"
	"GuandanClient/internal/game/event"

	"github.com/tidwall/gjson"
)

// first returns the first key that is present in obj.
func first(obj gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := obj.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func optString(r gjson.Result) event.Optional[string] {
	if !r.Exists() {
		return event.Optional[string]{}
	}
	if r.Type == gjson.Null {
		return event.Some("")
	}
	return event.Some(r.String())
}

func optBool(r gjson.Result) event.Optional[bool] {
	if !r.Exists() {
		return event.Optional[bool]{}
	}
	return event.Some(r.Bool())
}

// names 读取字符串数组；null 视为空列表
func names(r gjson.Result) event.Optional[[]string] {
	if !r.Exists() {
		return event.Optional[[]string]{}
	}
	out := []string{}
	for _, v := range r.Array() {
		if v.Type == gjson.String && v.Str != "" {
			out = append(out, v.Str)
		}
	}
	return event.Some(out)
}

func cards(r gjson.Result) []card.Card {
	out := []card.Card{}
	for _, v := range r.Array() {
		if v.Type == gjson.String {
			out = append(out, card.Card(v.Str))
		}
	}
	return out
}

func rank(r gjson.Result) event.Optional[card.Rank] {
	if !r.Exists() || r.Type == gjson.Null {
		return event.Optional[card.Rank]{}
	}
	rk, err := card.ParseRank(r.String())
	if err != nil {
		return event.Optional[card.Rank]{}
	}
	return event.Some(rk)
}

// seats 读取座位；旧服务端只给 players 列表，按顺序入座
func seats(data gjson.Result) event.Optional[event.Seats] {
	r := first(data, "seats", "slots", "players")
	if !r.IsArray() {
		return event.Optional[event.Seats]{}
	}
	var s event.Seats
	for i, v := range r.Array() {
		if i >= len(s) {
			break
		}
		if v.Type == gjson.String {
			s[i] = v.Str
		}
	}
	return event.Some(s)
}

func readyStates(r gjson.Result) event.Optional[map[string]bool] {
	if !r.IsObject() {
		return event.Optional[map[string]bool]{}
	}
	out := make(map[string]bool)
	r.ForEach(func(k, v gjson.Result) bool {
		out[k.String()] = v.Bool()
		return true
	})
	return event.Some(out)
}

func levels(r gjson.Result) event.Optional[map[string]card.Rank] {
	if !r.IsObject() {
		return event.Optional[map[string]card.Rank]{}
	}
	out := make(map[string]card.Rank)
	r.ForEach(func(k, v gjson.Result) bool {
		if rk, err := card.ParseRank(v.String()); err == nil {
			out[k.String()] = rk
		}
		return true
	})
	return event.Some(out)
}

func teams(r gjson.Result) event.Optional[event.Teams] {
	if !r.IsArray() {
		return event.Optional[event.Teams]{}
	}
	t := event.Teams{{}, {}}
	for i, team := range r.Array() {
		if i >= len(t) {
			break
		}
		t[i] = names(team).Or([]string{})
	}
	return event.Some(t)
}

func hands(r gjson.Result) event.Optional[event.Hands] {
	if !r.IsObject() {
		return event.Optional[event.Hands]{}
	}
	out := make(event.Hands)
	r.ForEach(func(k, v gjson.Result) bool {
		out[k.String()] = cards(v)
		return true
	})
	return event.Some(out)
}

// play: null 表示新一轮，尚无人出牌
func play(r gjson.Result) event.Optional[*event.Play] {
	if !r.Exists() {
		return event.Optional[*event.Play]{}
	}
	if !r.IsObject() {
		return event.Some[*event.Play](nil)
	}
	return event.Some(&event.Play{
		Player:   first(r, "player", "username").String(),
		Cards:    cards(first(r, "cards")),
		HandType: first(r, "handType", "hand_type", "type").String(),
	})
}

func settings(data gjson.Result) event.SettingsPatch {
	s := first(data, "settings")
	field := func(key string) gjson.Result {
		if r := first(s, key); r.Exists() {
			return r
		}
		return first(data, key)
	}

	var p event.SettingsPatch
	if r := field("cardBack"); r.Exists() {
		p.CardBack = event.Some(r.String())
	}
	if r := field("wildCards"); r.IsBool() {
		p.WildCards = event.Some(r.Bool())
	}
	if r := field("trumpSuit"); r.Exists() {
		if suit, err := card.ParseSuit(r.String()); err == nil {
			p.TrumpSuit = event.Some(suit)
		}
	}
	if r := field("startingLevels"); r.IsArray() {
		lv := [4]card.Rank{card.Rank2, card.Rank2, card.Rank2, card.Rank2}
		for i, v := range r.Array() {
			if i >= len(lv) {
				break
			}
			if rk, err := card.ParseRank(v.String()); err == nil {
				lv[i] = rk
			}
		}
		p.StartingLevels = event.Some(lv)
	}
	p.Present = s.Exists() || p.CardBack.Set || p.WildCards.Set || p.TrumpSuit.Set || p.StartingLevels.Set
	return p
}

func result(r gjson.Result) event.RoundResult {
	res := event.RoundResult{
		Levels:      levels(first(r, "levels")).Value,
		WinType:     first(r, "winType", "win_type").String(),
		WinningTeam: names(first(r, "winningTeam", "winning_team")).Value,
		LevelUp:     int(first(r, "levelUp", "level_up").Int()),
	}
	if t := teams(first(r, "teams")); t.Set {
		res.Teams = &t.Value
	}
	if s := seats(r); s.Set {
		res.Seats = &s.Value
	}
	return res
}

func pairs(r gjson.Result) []event.TributePair {
	out := []event.TributePair{}
	for _, v := range r.Array() {
		out = append(out, event.TributePair{
			From: first(v, "from").String(),
			To:   first(v, "to").String(),
		})
	}
	return out
}

func cardMap(r gjson.Result) map[string]card.Card {
	if !r.IsObject() {
		return nil
	}
	out := make(map[string]card.Card)
	r.ForEach(func(k, v gjson.Result) bool {
		if v.Type == gjson.String && v.Str != "" {
			out[k.String()] = card.Card(v.Str)
		}
		return true
	})
	return out
}

// tributeState 读取 data.tributeState，兼容直接平铺在 data 上的写法
func tributeState(data gjson.Result) event.TributeSnapshot {
	st := first(data, "tributeState", "tribute_state", "state")
	if !st.IsObject() {
		st = data
	}
	snap := event.TributeSnapshot{
		Step:     optString(first(st, "step")),
		Paid:     cardMap(first(st, "paid")),
		Returned: cardMap(first(st, "returned")),
	}
	if t := first(st, "tributes"); t.IsArray() {
		snap.Tributes = event.Some(pairs(t))
	}
	return snap
}
