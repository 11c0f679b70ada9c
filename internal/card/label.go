package card

import "fmt"

var suitSymbols = map[Suit]string{
	SuitHearts:   "♥",
	SuitSpades:   "♠",
	SuitClubs:    "♣",
	SuitDiamonds: "♦",
}

func (s Suit) Symbol() string {
	return suitSymbols[s]
}

// Label 用于日志/界面展示，例如 "10♥"
func Label(c Card) string {
	p, err := Parse(c)
	if err != nil {
		return fmt.Sprintf("?%s", string(c))
	}
	switch p.Rank {
	case RankSmallJoker:
		return "Joker"
	case RankBigJoker:
		return "JOKER"
	}
	return p.Rank.String() + p.Suit.Symbol()
}

func Labels(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = Label(c)
	}
	return out
}

var handTypeLabels = map[string]string{
	"single":     "Single",
	"pair":       "Pair",
	"triple":     "Triple",
	"full_house": "Full House",
	"straight":   "Straight",
	"tube":       "Tube (3 Consecutive Pairs)",
	"plate":      "Plate (2 Consecutive Triples)",
	"bomb":       "Bomb",
	"joker_bomb": "Joker Bomb",
}

// HandTypeLabel falls back to the raw server value for types it does not know.
func HandTypeLabel(handType string) string {
	if l, ok := handTypeLabels[handType]; ok {
		return l
	}
	return handType
}

// LevelSequence is the order levels advance in: 2 first, A last.
var LevelSequence = []Rank{Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8, Rank9, Rank10, RankJ, RankQ, RankK, RankA}

func levelIndex(r Rank) int {
	for i, l := range LevelSequence {
		if l == r {
			return i
		}
	}
	return -1
}

// NextLevel advances by n steps, capped at A.
func NextLevel(r Rank, n int) Rank {
	i := levelIndex(r)
	if i < 0 {
		return Rank2
	}
	i += n
	if i >= len(LevelSequence) {
		i = len(LevelSequence) - 1
	}
	return LevelSequence[i]
}

// TeamLevel is the lowest level among the team members; players without a level count as 2.
func TeamLevel(levels map[string]Rank, team []string) (Rank, bool) {
	if len(team) == 0 {
		return RankUnknown, false
	}
	best := len(LevelSequence)
	for _, p := range team {
		i := levelIndex(levels[p])
		if i < 0 {
			i = 0
		}
		if i < best {
			best = i
		}
	}
	return LevelSequence[best], true
}

func (r Rank) MarshalText() ([]byte, error) {
	if r == RankUnknown {
		return []byte{}, nil
	}
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = RankUnknown
		return nil
	}
	parsed, err := ParseRank(string(b))
	if err != nil {
		return fmt.Errorf("rank %q: %w", string(b), err)
	}
	*r = parsed
	return nil
}
