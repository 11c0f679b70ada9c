package dealer

import (
	"testing"

	"GuandanClient/internal/card"

	"github.com/stretchr/testify/assert"
)

// ✅ 测试牌组初始化
func TestNewDeck(t *testing.T) {
	d := NewDealer(1)
	d.NewDeck()

	if len(d.deck) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(d.deck))
	}

	for c, n := range Counts(d.deck) {
		assert.True(t, c.Valid(), "invalid code %q", c)
		assert.Equal(t, Decks, n, "card %s", c)
	}

	suits := make(map[card.Suit]bool)
	ranks := make(map[card.Rank]bool)
	for _, c := range d.deck {
		suits[c.Suit()] = true
		ranks[c.Rank()] = true
	}
	// 4 花色 + 王（无花色）
	assert.Len(t, suits, 5)
	// 13 点数 + 大小王
	assert.Len(t, ranks, 15)
}

// ✅ 相同种子洗牌结果一致
func TestShuffleDeterministic(t *testing.T) {
	d1 := NewDealer(42)
	d1.NewDeck()
	d2 := NewDealer(42)
	d2.NewDeck()
	assert.Equal(t, d1.deck, d2.deck)

	d3 := NewDealer(99)
	d3.NewDeck()
	assert.NotEqual(t, d1.deck, d3.deck)
}

// ✅ 四人各 27 张
func TestDealHands(t *testing.T) {
	d := NewDealer(7)
	d.NewDeck()
	players := []string{"Alice", "Bob", "Carol", "Dave"}
	hands := d.DealHands(players)

	all := []card.Card{}
	for _, p := range players {
		assert.Len(t, hands[p], HandSize, p)
		all = append(all, hands[p]...)
	}
	assert.Equal(t, fullDeckCounts(), Counts(all))
	assert.Equal(t, 0, d.Remaining())
}

func TestDealHandsSkipsEmptySeats(t *testing.T) {
	d := NewDealer(3)
	d.NewDeck()
	hands := d.DealHands([]string{"Alice", "", "Carol", ""})
	assert.Len(t, hands, 2)
	assert.Len(t, hands["Alice"], DeckSize/2)

	assert.Empty(t, NewDealer(1).DealHands([]string{"", ""}))
}

// ✅ 测试自动补牌机制
func TestDrawResetsDeck(t *testing.T) {
	d := NewDealer(3)
	d.NewDeck()
	for i := 0; i < DeckSize; i++ {
		d.draw()
	}
	c := d.draw()
	assert.True(t, c.Valid())
	assert.Equal(t, DeckSize-1, d.Remaining())
}

func fullDeckCounts() map[card.Card]int {
	return Counts(FullDeck())
}

// ✅ 未调用 NewDeck 也能直接发牌
func TestDealHandsFillsEmptyDeck(t *testing.T) {
	d := NewDealer(7)
	hands := d.DealHands([]string{"Alice", "Bob", "Carol", "Dave"})

	assert.Len(t, hands, 4)
	for p, h := range hands {
		assert.Len(t, h, HandSize, "player %s", p)
		assert.NoError(t, CheckHand(h))
	}
	assert.Equal(t, 0, d.Remaining())
}

func TestCheckHand(t *testing.T) {
	assert.NoError(t, CheckHand(nil))
	assert.NoError(t, CheckHand([]card.Card{"3H", "3H", "JoR", "JoR"}))

	assert.ErrorIs(t, CheckHand([]card.Card{"3H", "3H", "3H"}), ErrImpossibleHand)
	assert.ErrorIs(t, CheckHand([]card.Card{"1Z"}), ErrImpossibleHand)
	assert.ErrorIs(t, CheckHand(FullDeck()[:HandSize+1]), ErrImpossibleHand)
}
