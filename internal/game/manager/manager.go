package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"GuandanClient/internal/card"
	"GuandanClient/internal/game/engine"
	"GuandanClient/internal/utils"
	"GuandanClient/internal/websocket"
)

var ErrUnknownAction = errors.New("unknown action")

const actionTimeout = 5 * time.Second

// GameManager 把本地界面的操作翻译成 engine 命令
type GameManager struct {
	eng *engine.Engine
	hub websocket.HubInterface
}

func NewGameManager(eng *engine.Engine, hub websocket.HubInterface) *GameManager {
	return &GameManager{eng: eng, hub: hub}
}

func (m *GameManager) Engine() *engine.Engine {
	return m.eng
}

// Start 异步运行 engine，ctx 结束时退出
func (m *GameManager) Start(ctx context.Context) {
	go func() {
		if err := m.eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			utils.Error.Printf("engine stopped: %v", err)
		}
	}()
}

// SendSnapshot 给刚连上的界面补发当前状态
func (m *GameManager) SendSnapshot(clientID string) {
	m.hub.SendToClient(clientID, websocket.OutgoingMessage{Event: "state", Data: m.eng.Snapshot()})
}

// HandlePlayerMessage 统一入口（来自 Hub.OnIncoming）
func (m *GameManager) HandlePlayerMessage(msg websocket.IncomingMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	if err := m.Dispatch(ctx, msg.Event, msg.Data); err != nil {
		utils.Info.Printf("action %s from %s rejected: %v", msg.Event, msg.From, err)
		m.hub.SendToClient(msg.From, websocket.OutgoingMessage{
			Event: "action_error",
			Data:  map[string]any{"action": msg.Event, "error": err.Error()},
		})
	}
}

// Dispatch runs one UI action. data is the decoded JSON payload of the action.
func (m *GameManager) Dispatch(ctx context.Context, action string, data any) error {
	args, _ := data.(map[string]any)

	switch action {
	case "create_room":
		return m.eng.CreateRoom(ctx, str(args, "roomName"))
	case "join_room":
		return m.eng.JoinRoom(ctx, str(args, "roomId"))
	case "ready":
		return m.eng.Ready(ctx)
	case "start_game":
		return m.eng.StartGame(ctx)
	case "move_seat":
		return m.eng.MoveSeat(ctx, num(args, "slot"))
	case "update_settings":
		ch, err := settingsChange(args)
		if err != nil {
			return err
		}
		return m.eng.UpdateSettings(ctx, ch)

	case "play":
		return m.eng.Play(ctx)
	case "pass":
		return m.eng.Pass(ctx)
	case "end_round":
		return m.eng.EndRound(ctx)
	case "pay_tribute":
		return m.eng.PayTribute(ctx, card.Card(str(args, "card")))
	case "return_tribute":
		return m.eng.ReturnTribute(ctx, card.Card(str(args, "card")))

	case "select":
		if c := str(args, "card"); c != "" {
			return m.eng.Select(ctx, card.Card(c), numOr(args, "occurrence", 0))
		}
		return m.eng.SelectIndex(ctx, num(args, "index"))
	case "clear_selection":
		return m.eng.ClearSelection(ctx)
	case "reorder":
		return m.eng.Reorder(ctx, num(args, "from"), num(args, "to"))
	case "dismiss_notice":
		return m.eng.DismissNotice(ctx)
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

func settingsChange(args map[string]any) (engine.SettingsChange, error) {
	var ch engine.SettingsChange
	if s, ok := args["trumpSuit"].(string); ok {
		suit, err := card.ParseSuit(s)
		if err != nil {
			return ch, err
		}
		ch.TrumpSuit = &suit
	}
	if w, ok := args["wildCards"].(bool); ok {
		ch.WildCards = &w
	}
	if lv, ok := args["level"].(string); ok {
		r, err := card.ParseRank(lv)
		if err != nil {
			return ch, err
		}
		ch.StartingLevel = &engine.StartingLevel{Seat: num(args, "seat"), Level: r}
	}
	return ch, nil
}

func str(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// 缺省为 -1，engine 按越界拒绝
func num(args map[string]any, key string) int {
	return numOr(args, key, -1)
}

// JSON 数字解出来是 float64
func numOr(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}
