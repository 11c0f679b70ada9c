package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"GuandanClient/internal/card"
	"GuandanClient/internal/game/engine"
	"GuandanClient/internal/game/event"
	"GuandanClient/internal/protocol"
	"GuandanClient/internal/websocket"

	"github.com/stretchr/testify/assert"
)

// mockHub 实现 HubInterface，记录消息
type mockHub struct {
	mu         sync.Mutex
	sent       map[string][]websocket.OutgoingMessage
	broadcasts []websocket.OutgoingMessage
}

func newMockHub() *mockHub {
	return &mockHub{sent: make(map[string][]websocket.OutgoingMessage)}
}

func (h *mockHub) Broadcast(msg websocket.OutgoingMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcasts = append(h.broadcasts, msg)
}

func (h *mockHub) SendToClient(id string, msg websocket.OutgoingMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent[id] = append(h.sent[id], msg)
}

func (h *mockHub) Close() {}

func (h *mockHub) to(id string) []websocket.OutgoingMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]websocket.OutgoingMessage(nil), h.sent[id]...)
}

type recorder struct {
	mu      sync.Mutex
	intents []protocol.Intent
}

func (r *recorder) Send(i protocol.Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, i)
	return nil
}

func (r *recorder) events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, i := range r.intents {
		out = append(out, i.Event)
	}
	return out
}

func setup(t *testing.T) (*GameManager, *mockHub, *recorder) {
	t.Helper()
	hub := newMockHub()
	out := &recorder{}
	mgr := NewGameManager(engine.NewEngine("Alice", hub, out), hub)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	mgr.Start(ctx)

	eng := mgr.Engine()
	for _, ev := range []event.Event{
		event.RoomJoined{RoomID: "r1", Seats: event.Some(event.Seats{"Alice", "Bob", "Carol", "Dave"})},
		event.GameStarted{CurrentTurnPlayer: "Alice"},
		event.DealHand{Hand: []card.Card{"3S", "4S", "AH"}},
	} {
		before := eng.Snapshot().Version
		eng.Deliver(ev)
		assert.Eventually(t, func() bool { return eng.Snapshot().Version > before }, time.Second, time.Millisecond)
	}
	return mgr, hub, out
}

func TestDispatchGameActions(t *testing.T) {
	mgr, _, out := setup(t)
	ctx := context.Background()

	assert.NoError(t, mgr.Dispatch(ctx, "select", map[string]any{"card": "4S"}))
	assert.NoError(t, mgr.Dispatch(ctx, "play", nil))
	assert.NoError(t, mgr.Dispatch(ctx, "pass", nil))
	assert.NoError(t, mgr.Dispatch(ctx, "end_round", nil))
	assert.NoError(t, mgr.Dispatch(ctx, "ready", nil))

	assert.Equal(t, []string{
		protocol.IntentPlayCards,
		protocol.IntentPassTurn,
		protocol.IntentEndRound,
		protocol.IntentSetReady,
	}, out.events())
}

func TestDispatchLocalActions(t *testing.T) {
	mgr, _, out := setup(t)
	ctx := context.Background()

	// JSON 解出来的数字是 float64
	assert.NoError(t, mgr.Dispatch(ctx, "reorder", map[string]any{"from": float64(0), "to": float64(2)}))
	assert.NoError(t, mgr.Dispatch(ctx, "select", map[string]any{"index": float64(0)}))

	snap := mgr.Engine().Snapshot()
	assert.Equal(t, card.Card("4S"), snap.Hand[0].Card)
	assert.True(t, snap.Hand[0].Selected)

	assert.NoError(t, mgr.Dispatch(ctx, "clear_selection", nil))
	assert.False(t, mgr.Engine().Snapshot().Hand[0].Selected)
	assert.Empty(t, out.events(), "local actions never reach the server")
}

func TestDispatchSettings(t *testing.T) {
	mgr, _, out := setup(t)

	err := mgr.Dispatch(context.Background(), "update_settings", map[string]any{
		"trumpSuit": "S",
		"seat":      float64(2),
		"level":     "7",
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{protocol.IntentUpdateRoomSettings}, out.events())

	err = mgr.Dispatch(context.Background(), "update_settings", map[string]any{"trumpSuit": "stars"})
	assert.ErrorIs(t, err, card.ErrMalformedCard)
}

func TestRejectedActionReportsToSender(t *testing.T) {
	mgr, hub, out := setup(t)

	mgr.HandlePlayerMessage(websocket.IncomingMessage{From: "ui-1", Event: "pay_tribute", Data: map[string]any{"card": "AH"}})
	mgr.HandlePlayerMessage(websocket.IncomingMessage{From: "ui-1", Event: "dance"})

	msgs := hub.to("ui-1")
	if assert.Len(t, msgs, 2) {
		assert.Equal(t, "action_error", msgs[0].Event)
		assert.Equal(t, engine.ErrTributeNotAllowed.Error(), msgs[0].Data.(map[string]any)["error"])
		assert.Contains(t, msgs[1].Data.(map[string]any)["error"], "unknown action")
	}
	assert.Empty(t, out.events())
}

func TestSendSnapshotToNewClient(t *testing.T) {
	mgr, hub, _ := setup(t)

	mgr.SendSnapshot("ui-2")

	msgs := hub.to("ui-2")
	if assert.Len(t, msgs, 1) {
		snap := msgs[0].Data.(engine.Snapshot)
		assert.Equal(t, "r1", snap.Table.RoomID)
		assert.Len(t, snap.Hand, 3)
	}
}
