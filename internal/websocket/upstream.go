package websocket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"GuandanClient/internal/game/event"
	"GuandanClient/internal/protocol"
	"GuandanClient/internal/utils"

	"github.com/gorilla/websocket"
)

var (
	ErrNotConnected  = errors.New("upstream not connected")
	ErrSendQueueFull = errors.New("upstream send queue full")
)

const redialDelay = 2 * time.Second

// Upstream 与游戏服务端的长连接：读到的帧解码成事件交给 OnEvent，
// Send 只负责排队，写协程发送
type Upstream struct {
	URL     string
	Token   string
	Dialer  *websocket.Dialer
	OnEvent func(event.Event)

	// OnConnect 每次（重新）连上后调用
	OnConnect func()

	send chan protocol.Intent
	mu   sync.RWMutex
	conn *websocket.Conn
}

func NewUpstream(url, token string, onEvent func(event.Event)) *Upstream {
	return &Upstream{
		URL:     url,
		Token:   token,
		Dialer:  websocket.DefaultDialer,
		OnEvent: onEvent,
		send:    make(chan protocol.Intent, 32),
	}
}

// Send is fire-and-forget; the server answers with a pushed event.
func (u *Upstream) Send(intent protocol.Intent) error {
	if !u.Connected() {
		return ErrNotConnected
	}
	select {
	case u.send <- intent:
		return nil
	default:
		return ErrSendQueueFull
	}
}

func (u *Upstream) Connected() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.conn != nil
}

// Run 连接并保持连接，断线后按固定间隔重连，直到 ctx 结束
func (u *Upstream) Run(ctx context.Context) error {
	for {
		err := u.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		utils.Error.Printf("upstream: %v, redial in %s", err, redialDelay)

		select {
		case <-time.After(redialDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (u *Upstream) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if u.Token != "" {
		header.Set("Authorization", "Bearer "+u.Token)
	}
	conn, resp, err := u.Dialer.DialContext(ctx, u.URL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", u.URL, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", u.URL, err)
	}
	return conn, nil
}

func (u *Upstream) session(ctx context.Context) error {
	conn, err := u.dial(ctx)
	if err != nil {
		return err
	}
	u.mu.Lock()
	u.conn = conn
	u.mu.Unlock()
	utils.Info.Printf("upstream connected: %s", u.URL)

	defer func() {
		u.mu.Lock()
		u.conn = nil
		u.mu.Unlock()
		_ = conn.Close()
	}()

	if u.OnConnect != nil {
		u.OnConnect()
	}

	readErr := make(chan error, 1)
	go func() { readErr <- u.readPump(conn) }()

	return u.writePump(ctx, conn, readErr)
}

// 读协程：帧 -> 事件，解码失败只记日志
func (u *Upstream) readPump(conn *websocket.Conn) error {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		ev, err := protocol.Decode(frame)
		if err != nil {
			utils.Error.Printf("upstream: drop frame: %v", err)
			continue
		}
		if u.OnEvent != nil {
			u.OnEvent(ev)
		}
	}
}

// 写协程：发送排队的 intent + 心跳
func (u *Upstream) writePump(ctx context.Context, conn *websocket.Conn, readErr <-chan error) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case intent := <-u.send:
			payload, err := intent.Encode()
			if err != nil {
				utils.Error.Printf("upstream: encode %s: %v", intent.Event, err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return err
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}

		case err := <-readErr:
			return err

		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ctx.Err()
		}
	}
}
