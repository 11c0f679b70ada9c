package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"GuandanClient/internal/card"
	"GuandanClient/internal/game/dealer"
	"GuandanClient/internal/game/event"
	"GuandanClient/internal/game/handorder"
	"GuandanClient/internal/game/table"
	"GuandanClient/internal/protocol"
	"GuandanClient/internal/utils"
	"GuandanClient/internal/websocket"
)

var (
	ErrNoIdentity        = errors.New("no player identity")
	ErrNotInRoom         = errors.New("not in a room")
	ErrWrongPhase        = errors.New("action not available in this phase")
	ErrEmptySelection    = errors.New("no cards selected")
	ErrTributeNotAllowed = errors.New("tribute action not available")
	ErrCardNotInHand     = errors.New("card not in hand")
	ErrNotHost           = errors.New("only the host can change room settings")
	ErrInvalidSeat       = errors.New("invalid seat")
	ErrSeatTaken         = errors.New("seat already taken")
	ErrStopped           = errors.New("engine stopped")
)

// Outbound 上行通道（发往游戏服务端），发送即忘
type Outbound interface {
	Send(intent protocol.Intent) error
}

// SnapshotStore receives every published snapshot, e.g. for spectators.
type SnapshotStore interface {
	Publish(ctx context.Context, roomID string, payload []byte) error
}

type command struct {
	run  func() error
	done chan error
}

// ---------------------
//       ENGINE
// ---------------------

// Engine is the single writer of the table state. Run owns the loop; every
// other method hands work to it through channels.
type Engine struct {
	Hub   websocket.HubInterface
	Out   Outbound
	Store SnapshotStore

	self    string
	table   table.Table
	hand    *handorder.Model
	notice  *Notice
	version uint64

	mu   sync.RWMutex
	snap Snapshot

	events   chan event.Event
	commands chan command
	quit     chan struct{}
	stopOnce sync.Once
}

func NewEngine(self string, hub websocket.HubInterface, out Outbound) *Engine {
	e := &Engine{
		Hub:      hub,
		Out:      out,
		self:     self,
		table:    table.New(),
		hand:     handorder.New(),
		events:   make(chan event.Event, 64), // 防止阻塞读协程
		commands: make(chan command),
		quit:     make(chan struct{}),
	}
	e.snap = e.buildSnapshot()
	return e
}

// Run 事件循环：一次只处理一个事件或一个本地操作
func (e *Engine) Run(ctx context.Context) error {
	defer e.stopOnce.Do(func() { close(e.quit) })
	for {
		select {
		case ev := <-e.events:
			e.apply(ctx, ev)
		case cmd := <-e.commands:
			cmd.done <- cmd.run()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Deliver 上行连接收到的事件入口（按到达顺序）
func (e *Engine) Deliver(ev event.Event) {
	select {
	case e.events <- ev:
	case <-e.quit:
	}
}

func (e *Engine) do(ctx context.Context, fn func() error) error {
	cmd := command{run: fn, done: make(chan error, 1)}
	select {
	case e.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.quit:
		return ErrStopped
	}
	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) apply(ctx context.Context, ev event.Event) {
	if joined, ok := ev.(event.RoomJoined); ok && e.self == "" && joined.Username != "" {
		e.self = joined.Username
	}

	switch ev := ev.(type) {
	case event.Error:
		utils.Error.Printf("server error: %s", ev.Message)
		e.notice = &Notice{Message: ev.Message, At: time.Now()}
		if e.Hub != nil {
			e.Hub.Broadcast(websocket.OutgoingMessage{Event: "notice", Data: e.notice})
		}
		e.publish(ctx)
		return
	case event.Unknown:
		utils.Info.Printf("ignoring unknown event %q", ev.Name)
		return
	}

	if deal, ok := ev.(event.DealHand); ok {
		// 牌面照收，服务端为准，只提示
		if err := dealer.CheckHand(deal.Hand); err != nil {
			utils.Error.Printf("deal_hand for %q: %v", deal.ForPlayer, err)
			e.notice = &Notice{Message: err.Error(), At: time.Now()}
		}
	}

	e.table = Reduce(e.self, e.table, ev)
	change := e.hand.OnHandsUpdated(e.table.Hands[e.self], e.table.LevelRank)
	if change != handorder.ChangeNone {
		utils.Info.Printf("%s: hand %s (%d cards)", ev.Kind(), change, e.hand.Len())
	}
	e.publish(ctx)
}

// publish 刷新快照并推送给本地界面与快照存储
func (e *Engine) publish(ctx context.Context) {
	e.version++
	snap := e.buildSnapshot()

	if e.Hub != nil {
		e.Hub.Broadcast(websocket.OutgoingMessage{Event: "state", Data: snap})
	}
	if e.Store != nil && snap.Table.RoomID != "" {
		if payload, err := json.Marshal(snap); err != nil {
			utils.Error.Printf("snapshot encode: %v", err)
		} else if err := e.Store.Publish(ctx, snap.Table.RoomID, payload); err != nil {
			utils.Error.Printf("snapshot publish: %v", err)
		}
	}

	// 最后才对外可见：Snapshot() 读到新版本时推送已完成
	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()
}

// Snapshot is safe to call from any goroutine.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

func (e *Engine) send(intent protocol.Intent) error {
	if e.Out == nil {
		return ErrStopped
	}
	return e.Out.Send(intent)
}

func (e *Engine) meta() (protocol.Meta, error) {
	if e.self == "" {
		return protocol.Meta{}, ErrNoIdentity
	}
	if e.table.RoomID == "" {
		return protocol.Meta{}, ErrNotInRoom
	}
	return protocol.NewMeta(e.table.RoomID, e.self), nil
}

// --------------------------
//   LOBBY INTENTS
// --------------------------

func (e *Engine) CreateRoom(ctx context.Context, roomName string) error {
	return e.do(ctx, func() error {
		if e.self == "" {
			return ErrNoIdentity
		}
		return e.send(protocol.NewCreateRoom(e.self, roomName, roomSettings(table.DefaultSettings())))
	})
}

func (e *Engine) JoinRoom(ctx context.Context, roomID string) error {
	return e.do(ctx, func() error {
		if e.self == "" {
			return ErrNoIdentity
		}
		return e.send(protocol.NewJoinRoom(e.self, roomID))
	})
}

// Ready flips whatever the server last said about us.
func (e *Engine) Ready(ctx context.Context) error {
	return e.do(ctx, func() error {
		m, err := e.meta()
		if err != nil {
			return err
		}
		return e.send(protocol.NewSetReady(m, !e.table.IsReady(e.self)))
	})
}

func (e *Engine) StartGame(ctx context.Context) error {
	return e.do(ctx, func() error {
		m, err := e.meta()
		if err != nil {
			return err
		}
		return e.send(protocol.NewStartGame(m))
	})
}

func (e *Engine) MoveSeat(ctx context.Context, slot int) error {
	return e.do(ctx, func() error {
		m, err := e.meta()
		if err != nil {
			return err
		}
		if slot < 0 || slot >= len(e.table.Seats) {
			return ErrInvalidSeat
		}
		if occupant := e.table.Seats[slot]; occupant != "" && occupant != e.self {
			return ErrSeatTaken
		}
		return e.send(protocol.NewMoveSeat(m, slot))
	})
}

// SettingsChange 房主修改的设置项；nil 表示不变
type SettingsChange struct {
	TrumpSuit     *card.Suit
	WildCards     *bool
	StartingLevel *StartingLevel
}

type StartingLevel struct {
	Seat  int
	Level card.Rank
}

// UpdateSettings sends the current settings with the change applied. The local
// table is not touched; the server's room_update is what changes it.
func (e *Engine) UpdateSettings(ctx context.Context, ch SettingsChange) error {
	return e.do(ctx, func() error {
		m, err := e.meta()
		if err != nil {
			return err
		}
		if !e.table.IsHost(e.self) {
			return ErrNotHost
		}
		s := e.table.Settings
		if ch.TrumpSuit != nil {
			s.TrumpSuit = *ch.TrumpSuit
		}
		if ch.WildCards != nil {
			s.WildCards = *ch.WildCards
		}
		if lv := ch.StartingLevel; lv != nil {
			if lv.Seat < 0 || lv.Seat >= len(s.StartingLevels) {
				return ErrInvalidSeat
			}
			s.StartingLevels[lv.Seat] = lv.Level
		}
		return e.send(protocol.NewUpdateRoomSettings(m, roomSettings(s)))
	})
}

func roomSettings(s table.Settings) protocol.RoomSettings {
	levels := make([]string, len(s.StartingLevels))
	for i, l := range s.StartingLevels {
		levels[i] = l.String()
	}
	return protocol.RoomSettings{
		CardBack:       s.CardBack,
		WildCards:      s.WildCards,
		TrumpSuit:      string(s.TrumpSuit),
		StartingLevels: levels,
	}
}

// --------------------------
//   GAME INTENTS
// --------------------------

func (e *Engine) inGame() (protocol.Meta, error) {
	m, err := e.meta()
	if err != nil {
		return m, err
	}
	if e.table.Phase != table.PhaseGame {
		return m, ErrWrongPhase
	}
	return m, nil
}

// Play 出选中的牌；手牌在服务端回显后才真正移除
func (e *Engine) Play(ctx context.Context) error {
	return e.do(ctx, func() error {
		m, err := e.inGame()
		if err != nil {
			return err
		}
		cards := e.hand.Selected()
		if len(cards) == 0 {
			return ErrEmptySelection
		}
		// 发送失败时保留选牌
		if err := e.send(protocol.NewPlayCards(m, cards)); err != nil {
			return err
		}
		e.hand.TakeSelection()
		e.publish(ctx)
		return nil
	})
}

func (e *Engine) Pass(ctx context.Context) error {
	return e.do(ctx, func() error {
		m, err := e.inGame()
		if err != nil {
			return err
		}
		e.hand.ClearSelection()
		defer e.publish(ctx)
		return e.send(protocol.NewPassTurn(m))
	})
}

func (e *Engine) EndRound(ctx context.Context) error {
	return e.do(ctx, func() error {
		m, err := e.inGame()
		if err != nil {
			return err
		}
		return e.send(protocol.NewEndRound(m))
	})
}

// PayTribute is only sent while the tribute state says it is our turn to pay.
func (e *Engine) PayTribute(ctx context.Context, c card.Card) error {
	return e.do(ctx, func() error {
		m, err := e.meta()
		if err != nil {
			return err
		}
		if !e.table.Tribute.CanPay(e.self) {
			return ErrTributeNotAllowed
		}
		if !e.hand.Contains(c) {
			return ErrCardNotInHand
		}
		return e.send(protocol.NewPayTribute(m, c))
	})
}

func (e *Engine) ReturnTribute(ctx context.Context, c card.Card) error {
	return e.do(ctx, func() error {
		m, err := e.meta()
		if err != nil {
			return err
		}
		if !e.table.Tribute.CanReturn(e.self) {
			return ErrTributeNotAllowed
		}
		if !e.hand.Contains(c) {
			return ErrCardNotInHand
		}
		return e.send(protocol.NewReturnTribute(m, c))
	})
}

// --------------------------
//   LOCAL-ONLY ACTIONS
// --------------------------

func (e *Engine) Reorder(ctx context.Context, from, to int) error {
	return e.local(ctx, func() error { return e.hand.Reorder(from, to) })
}

func (e *Engine) Select(ctx context.Context, c card.Card, occurrence int) error {
	return e.local(ctx, func() error {
		_, err := e.hand.SelectToggle(c, occurrence)
		return err
	})
}

func (e *Engine) SelectIndex(ctx context.Context, i int) error {
	return e.local(ctx, func() error {
		_, err := e.hand.SelectIndex(i)
		return err
	})
}

func (e *Engine) ClearSelection(ctx context.Context) error {
	return e.local(ctx, func() error {
		e.hand.ClearSelection()
		return nil
	})
}

func (e *Engine) DismissNotice(ctx context.Context) error {
	return e.local(ctx, func() error {
		e.notice = nil
		return nil
	})
}

func (e *Engine) local(ctx context.Context, fn func() error) error {
	return e.do(ctx, func() error {
		if err := fn(); err != nil {
			return err
		}
		e.publish(ctx)
		return nil
	})
}
