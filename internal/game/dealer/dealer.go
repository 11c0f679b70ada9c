package dealer

import (
	"errors"
	"fmt"
	"math/rand"

	"GuandanClient/internal/card"
)

var ErrImpossibleHand = errors.New("hand cannot come from a two-deck set")

const (
	Decks     = 2
	DeckSize  = 54 * Decks
	Seats     = 4
	HandSize  = DeckSize / Seats
	suitCodes = "HSCD"
)

var rankCodes = []string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2"}

// Dealer 只负责洗牌与发牌（无规则判断）。
// 客户端用它来构造与服务端一致的发牌快照（测试夹具、回放校验）。
type Dealer struct {
	deck []card.Card
	rnd  *rand.Rand
}

func NewDealer(seed int64) *Dealer {
	return &Dealer{
		deck: make([]card.Card, 0, DeckSize),
		rnd:  rand.New(rand.NewSource(seed)),
	}
}

// NewDeck 初始化两副牌（含四张王）并洗牌
func (d *Dealer) NewDeck() {
	d.deck = FullDeck()
	d.shuffle()
}

// FullDeck returns the unshuffled two-deck set.
func FullDeck() []card.Card {
	deck := make([]card.Card, 0, DeckSize)
	for i := 0; i < Decks; i++ {
		for _, s := range suitCodes {
			for _, r := range rankCodes {
				deck = append(deck, card.Card(r+string(s)))
			}
		}
		deck = append(deck, card.SmallJoker, card.BigJoker)
	}
	return deck
}

func (d *Dealer) shuffle() {
	d.rnd.Shuffle(len(d.deck), func(i, j int) {
		d.deck[i], d.deck[j] = d.deck[j], d.deck[i]
	})
}

// DealHands 轮流发牌，返回 player -> 手牌；空座位跳过
func (d *Dealer) DealHands(players []string) map[string][]card.Card {
	if len(d.deck) == 0 {
		d.NewDeck()
	}
	out := make(map[string][]card.Card, len(players))
	seated := make([]string, 0, len(players))
	for _, p := range players {
		if p != "" {
			seated = append(seated, p)
		}
	}
	if len(seated) == 0 {
		return out
	}
	per := len(d.deck) / len(seated)
	for i := 0; i < per; i++ {
		for _, p := range seated {
			out[p] = append(out[p], d.draw())
		}
	}
	return out
}

func (d *Dealer) Remaining() int {
	return len(d.deck)
}

func (d *Dealer) draw() card.Card {
	if len(d.deck) == 0 {
		// should not happen if properly invoked
		d.NewDeck()
	}
	c := d.deck[0]
	d.deck = d.deck[1:]
	return c
}

// Counts 统计牌面出现次数，两副牌中同一牌面最多出现两次
func Counts(cards []card.Card) map[card.Card]int {
	out := make(map[card.Card]int, len(cards))
	for _, c := range cards {
		out[c]++
	}
	return out
}

// CheckHand 校验一手牌能否来自两副牌：牌面合法、同一牌面不超过两张、张数不超过一手
func CheckHand(hand []card.Card) error {
	if len(hand) > HandSize {
		return fmt.Errorf("%w: %d cards", ErrImpossibleHand, len(hand))
	}
	for c, n := range Counts(hand) {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown card %q", ErrImpossibleHand, c)
		}
		if n > Decks {
			return fmt.Errorf("%w: %s x%d", ErrImpossibleHand, c, n)
		}
	}
	return nil
}
