package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"GuandanClient/internal/card"
	"GuandanClient/internal/game/engine"
	"GuandanClient/internal/game/event"
	"GuandanClient/internal/game/manager"
	"GuandanClient/internal/protocol"
	"GuandanClient/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

type nopOutbound struct{ sent []string }

func (o *nopOutbound) Send(i protocol.Intent) error {
	o.sent = append(o.sent, i.Event)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *engine.Engine, *nopOutbound) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Close)

	out := &nopOutbound{}
	eng := engine.NewEngine("Alice", hub, out)
	mgr := manager.NewGameManager(eng, hub)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	mgr.Start(ctx)

	return NewRouter(NewHandler(mgr), hub), eng, out
}

func deliver(t *testing.T, eng *engine.Engine, ev event.Event) {
	before := eng.Snapshot().Version
	eng.Deliver(ev)
	assert.Eventually(t, func() bool { return eng.Snapshot().Version > before }, time.Second, time.Millisecond)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", gjson.Get(w.Body.String(), "status").String())
}

func TestStateReflectsEngine(t *testing.T) {
	r, eng, _ := newTestRouter(t)
	deliver(t, eng, event.RoomJoined{RoomID: "r1", Seats: event.Some(event.Seats{"Alice", "Bob"})})
	deliver(t, eng, event.DealHand{Hand: []card.Card{"JoB", "3C"}})

	w := do(r, http.MethodGet, "/state", "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Equal(t, "r1", gjson.Get(body, "table.roomId").String())
	assert.Equal(t, "lobby", gjson.Get(body, "table.phase").String())
	assert.Equal(t, "3C", gjson.Get(body, "hand.0.card").String())
	assert.Equal(t, "JoB", gjson.Get(body, "hand.1.card").String())
	assert.True(t, gjson.Get(body, "isHost").Bool())
}

func TestActionAccepted(t *testing.T) {
	r, eng, out := newTestRouter(t)
	deliver(t, eng, event.RoomJoined{RoomID: "r1", Seats: event.Some(event.Seats{"Alice"})})

	w := do(r, http.MethodPost, "/actions/ready", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{protocol.IntentSetReady}, out.sent)

	w = do(r, http.MethodPost, "/actions/move_seat", `{"slot":3}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, protocol.IntentMoveSeat, out.sent[1])
}

func TestActionErrors(t *testing.T) {
	r, _, out := newTestRouter(t)

	w := do(r, http.MethodPost, "/actions/start_game", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, engine.ErrNotInRoom.Error(), gjson.Get(w.Body.String(), "error").String())

	w = do(r, http.MethodPost, "/actions/fly", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/actions/reorder", `{"from":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, out.sent)
}

func TestCORSPreflight(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/actions/play", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusOf(engine.ErrEmptySelection))
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(engine.ErrStopped))
	assert.Equal(t, http.StatusGatewayTimeout, statusOf(context.DeadlineExceeded))
	assert.Equal(t, http.StatusConflict, statusOf(engine.ErrTributeNotAllowed))
}
