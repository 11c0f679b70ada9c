package card

import (
	"cmp"
	"slices"
)

// Config is the per-round table configuration that card semantics depend on.
type Config struct {
	LevelRank Rank
	TrumpSuit Suit
	WildCards bool
}

type Class struct {
	IsTrump bool `json:"isTrump"`
	IsWild  bool `json:"isWild"`
}

// Classify never fails; unknown cards are plain cards.
func Classify(c Card, cfg Config) Class {
	p, err := Parse(c)
	if err != nil {
		return Class{}
	}
	if p.IsJoker() {
		return Class{IsTrump: true}
	}
	var cl Class
	cl.IsWild = cfg.WildCards && cfg.TrumpSuit != SuitNone &&
		p.Rank == cfg.LevelRank && p.Suit == cfg.TrumpSuit
	if cfg.TrumpSuit != SuitNone {
		cl.IsTrump = p.Suit == cfg.TrumpSuit || p.Rank == cfg.LevelRank
	}
	cl.IsTrump = cl.IsTrump || cl.IsWild
	return cl
}

// 排序权重：大王 > 小王 > 级牌 > 其他（3 < 4 < ... < A < 2）
const (
	levelSlot      = int(Rank2) + 1
	smallJokerSlot = levelSlot + 1
	bigJokerSlot   = smallJokerSlot + 1
	suitSpan       = 4
)

// SortKey orders cards for the default hand layout only. Distinct codes never share a key;
// malformed codes get -1.
func SortKey(c Card, levelRank Rank) int {
	p, err := Parse(c)
	if err != nil {
		return -1
	}
	switch p.Rank {
	case RankBigJoker:
		return bigJokerSlot * suitSpan
	case RankSmallJoker:
		return smallJokerSlot * suitSpan
	}
	slot := int(p.Rank)
	if p.Rank == levelRank {
		slot = levelSlot
	}
	return slot*suitSpan + slices.Index(Suits, p.Suit)
}

// Sort returns a sorted copy, leaving the input untouched.
func Sort(cards []Card, levelRank Rank) []Card {
	out := slices.Clone(cards)
	slices.SortStableFunc(out, func(a, b Card) int {
		return cmp.Or(
			cmp.Compare(SortKey(a, levelRank), SortKey(b, levelRank)),
			cmp.Compare(a, b),
		)
	})
	return out
}
