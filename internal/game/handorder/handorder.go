// Package handorder keeps the local player's own arrangement of their hand.
//
// The server only ever sends hand snapshots. The model tells a fresh deal (or a
// tribute exchange) apart from an echo of the player's own play: the former
// replaces the arrangement, the latter removes the played cards and keeps the
// player's order for everything else.
package handorder

import (
	"errors"
	"slices"

	"GuandanClient/internal/card"
)

var (
	ErrIndexOutOfRange = errors.New("hand index out of range")
	ErrNoSuchCard      = errors.New("card not in hand")
)

type Change string

const (
	ChangeNone     Change = "none"
	ChangeReseeded Change = "reseeded"
	ChangeRemoved  Change = "removed"
	ChangeCleared  Change = "cleared"
)

// Slot 手牌中的一个位置；ID 在重新排列后保持不变，用来区分两副牌里的同名牌
type Slot struct {
	ID   uint64    `json:"id"`
	Card card.Card `json:"card"`
}

type Model struct {
	slots        []Slot
	nextID       uint64
	lastObserved int
	selected     map[uint64]bool
	pending      map[uint64]bool
}

func New() *Model {
	return &Model{
		selected: make(map[uint64]bool),
		pending:  make(map[uint64]bool),
	}
}

// OnHandsUpdated reacts to a new authoritative snapshot of the local hand.
func (m *Model) OnHandsUpdated(hand []card.Card, levelRank card.Rank) Change {
	if len(hand) == 0 {
		had := len(m.slots) > 0 || m.lastObserved > 0
		m.reset()
		m.lastObserved = 0
		if had {
			return ChangeCleared
		}
		return ChangeNone
	}

	// 手牌变多：新发牌
	if len(hand) > m.lastObserved {
		m.reseed(hand, levelRank)
		return ChangeReseeded
	}

	m.lastObserved = len(hand)

	surplus, subset := m.surplus(hand)
	if !subset {
		// 牌面变了但数量没涨（例如进贡换牌）
		m.reseed(hand, levelRank)
		return ChangeReseeded
	}
	if len(hand) == len(m.slots) {
		return ChangeNone
	}
	m.remove(surplus)
	return ChangeRemoved
}

func (m *Model) reset() {
	m.slots = nil
	clear(m.selected)
	clear(m.pending)
}

func (m *Model) reseed(hand []card.Card, levelRank card.Rank) {
	m.reset()
	for _, c := range card.Sort(hand, levelRank) {
		m.nextID++
		m.slots = append(m.slots, Slot{ID: m.nextID, Card: c})
	}
	m.lastObserved = len(hand)
}

// surplus counts, per card, how many slots are no longer backed by the snapshot.
// subset is false when the snapshot holds a card (or a copy) we do not have.
func (m *Model) surplus(hand []card.Card) (map[card.Card]int, bool) {
	out := make(map[card.Card]int)
	for _, s := range m.slots {
		out[s.Card]++
	}
	for _, c := range hand {
		out[c]--
		if out[c] < 0 {
			return nil, false
		}
	}
	return out, true
}

// remove drops surplus slots: the ones just played first, then selected ones,
// then the last occurrences. Survivors keep their relative order.
func (m *Model) remove(surplus map[card.Card]int) {
	drop := make(map[uint64]bool)
	mark := func(prefer func(Slot) bool, reverse bool) {
		for i := range m.slots {
			idx := i
			if reverse {
				idx = len(m.slots) - 1 - i
			}
			s := m.slots[idx]
			if drop[s.ID] || surplus[s.Card] <= 0 || !prefer(s) {
				continue
			}
			drop[s.ID] = true
			surplus[s.Card]--
		}
	}
	mark(func(s Slot) bool { return m.pending[s.ID] }, false)
	mark(func(s Slot) bool { return m.selected[s.ID] }, false)
	mark(func(Slot) bool { return true }, true)

	m.slots = slices.DeleteFunc(m.slots, func(s Slot) bool { return drop[s.ID] })
	for id := range drop {
		delete(m.selected, id)
	}
	clear(m.pending)
}

// Reorder moves the card at from to position to. Purely cosmetic.
func (m *Model) Reorder(from, to int) error {
	if from < 0 || from >= len(m.slots) || to < 0 || to >= len(m.slots) {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}
	s := m.slots[from]
	m.slots = slices.Delete(m.slots, from, from+1)
	m.slots = slices.Insert(m.slots, to, s)
	return nil
}

// SelectToggle toggles the occurrence-th copy (0-based, in current order) of c.
func (m *Model) SelectToggle(c card.Card, occurrence int) (bool, error) {
	seen := 0
	for _, s := range m.slots {
		if s.Card != c {
			continue
		}
		if seen == occurrence {
			return m.toggle(s.ID), nil
		}
		seen++
	}
	return false, ErrNoSuchCard
}

func (m *Model) SelectIndex(i int) (bool, error) {
	if i < 0 || i >= len(m.slots) {
		return false, ErrIndexOutOfRange
	}
	return m.toggle(m.slots[i].ID), nil
}

func (m *Model) toggle(id uint64) bool {
	if m.selected[id] {
		delete(m.selected, id)
		return false
	}
	m.selected[id] = true
	return true
}

func (m *Model) ClearSelection() {
	clear(m.selected)
}

// Selected returns the selected cards in hand order.
func (m *Model) Selected() []card.Card {
	var out []card.Card
	for _, s := range m.slots {
		if m.selected[s.ID] {
			out = append(out, s.Card)
		}
	}
	return out
}

func (m *Model) IsSelected(i int) bool {
	return i >= 0 && i < len(m.slots) && m.selected[m.slots[i].ID]
}

// TakeSelection 出牌：返回已选牌，并记住这些位置，等服务端回显时优先移除
func (m *Model) TakeSelection() []card.Card {
	cards := m.Selected()
	clear(m.pending)
	for id := range m.selected {
		m.pending[id] = true
	}
	clear(m.selected)
	return cards
}

func (m *Model) Order() []card.Card {
	out := make([]card.Card, len(m.slots))
	for i, s := range m.slots {
		out[i] = s.Card
	}
	return out
}

func (m *Model) Slots() []Slot {
	return slices.Clone(m.slots)
}

func (m *Model) Len() int {
	return len(m.slots)
}

func (m *Model) LastObserved() int {
	return m.lastObserved
}

func (m *Model) Contains(c card.Card) bool {
	return slices.ContainsFunc(m.slots, func(s Slot) bool { return s.Card == c })
}
