package card

import (
	"errors"
	"slices"
	"strings"
)

// Card 牌面编码，例如 "AH"、"10S"、"JoB"、"JoR"
type Card string

const (
	SmallJoker Card = "JoB"
	BigJoker   Card = "JoR"
)

type Rank int

const (
	RankUnknown Rank = iota
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ
	RankQ
	RankK
	RankA
	Rank2
	RankSmallJoker
	RankBigJoker
)

type Suit string

const (
	SuitNone     Suit = ""
	SuitHearts   Suit = "hearts"
	SuitSpades   Suit = "spades"
	SuitClubs    Suit = "clubs"
	SuitDiamonds Suit = "diamonds"
)

var ErrMalformedCard = errors.New("malformed card code")

var rankNames = []string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2"}

// Suits in display order.
var Suits = []Suit{SuitHearts, SuitSpades, SuitClubs, SuitDiamonds}

var suitLetters = map[byte]Suit{
	'H': SuitHearts,
	'S': SuitSpades,
	'C': SuitClubs,
	'D': SuitDiamonds,
}

func (r Rank) String() string {
	switch {
	case r >= Rank3 && r <= Rank2:
		return rankNames[r-1]
	case r == RankSmallJoker:
		return string(SmallJoker)
	case r == RankBigJoker:
		return string(BigJoker)
	}
	return "?"
}

// ParseRank accepts the rank part of a card code ("10", "J", "2", ...) or a joker code.
func ParseRank(s string) (Rank, error) {
	switch Card(s) {
	case SmallJoker:
		return RankSmallJoker, nil
	case BigJoker:
		return RankBigJoker, nil
	}
	s = strings.ToUpper(s)
	for i, name := range rankNames {
		if name == s {
			return Rank(i + 1), nil
		}
	}
	return RankUnknown, ErrMalformedCard
}

// ParseSuit accepts "hearts" style names as well as the single letter codes.
func ParseSuit(s string) (Suit, error) {
	if len(s) == 1 {
		if suit, ok := suitLetters[strings.ToUpper(s)[0]]; ok {
			return suit, nil
		}
		return SuitNone, ErrMalformedCard
	}
	suit := Suit(strings.ToLower(s))
	if slices.Contains(Suits, suit) {
		return suit, nil
	}
	return SuitNone, ErrMalformedCard
}

type Parsed struct {
	Rank Rank
	Suit Suit
}

func (p Parsed) IsJoker() bool {
	return p.Rank == RankSmallJoker || p.Rank == RankBigJoker
}

// Parse splits a code into rank and suit. Jokers never carry a suit.
func Parse(c Card) (Parsed, error) {
	switch c {
	case SmallJoker:
		return Parsed{Rank: RankSmallJoker}, nil
	case BigJoker:
		return Parsed{Rank: RankBigJoker}, nil
	}
	s := string(c)
	if len(s) < 2 || len(s) > 3 {
		return Parsed{Rank: RankUnknown}, ErrMalformedCard
	}
	suit, ok := suitLetters[strings.ToUpper(s[len(s)-1:])[0]]
	if !ok {
		return Parsed{Rank: RankUnknown}, ErrMalformedCard
	}
	rank, err := ParseRank(s[:len(s)-1])
	if err != nil || rank > Rank2 {
		return Parsed{Rank: RankUnknown}, ErrMalformedCard
	}
	return Parsed{Rank: rank, Suit: suit}, nil
}

// Rank returns RankUnknown for malformed codes.
func (c Card) Rank() Rank {
	p, _ := Parse(c)
	return p.Rank
}

func (c Card) Suit() Suit {
	p, _ := Parse(c)
	return p.Suit
}

func (c Card) Valid() bool {
	_, err := Parse(c)
	return err == nil
}

// Strings 方便序列化与日志
func Strings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = string(c)
	}
	return out
}

func FromStrings(codes []string) []Card {
	out := make([]Card, len(codes))
	for i, s := range codes {
		out[i] = Card(s)
	}
	return out
}
