package protocol

import (
	"encoding/json"

	"GuandanClient/internal/card"

	"github.com/google/uuid"
)

// Outbound topics. All are fire-and-forget: the server answers with a pushed event.
const (
	IntentCreateRoom         = "create_room"
	IntentJoinRoom           = "join_room"
	IntentSetReady           = "set_ready"
	IntentStartGame          = "start_game"
	IntentPlayCards          = "play_cards"
	IntentPassTurn           = "pass_turn"
	IntentEndRound           = "end_round"
	IntentUpdateRoomSettings = "update_room_settings"
	IntentMoveSeat           = "move_seat"
	IntentPayTribute         = "pay_tribute"
	IntentReturnTribute      = "return_tribute"
)

// Intent 与服务端 OutgoingMessage 同构：{event, data}
type Intent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func (i Intent) Encode() ([]byte, error) {
	return json.Marshal(i)
}

// Meta 每条请求都带房间、身份和请求 ID（方便服务端日志关联）
type Meta struct {
	RoomID    string `json:"roomId,omitempty"`
	Username  string `json:"username"`
	RequestID string `json:"requestId"`
}

func NewMeta(roomID, username string) Meta {
	return Meta{RoomID: roomID, Username: username, RequestID: uuid.NewString()}
}

type RoomSettings struct {
	CardBack       string   `json:"cardBack"`
	WildCards      bool     `json:"wildCards"`
	TrumpSuit      string   `json:"trumpSuit"`
	StartingLevels []string `json:"startingLevels"`
}

type CreateRoom struct {
	Meta
	RoomName string `json:"roomName,omitempty"`
	RoomSettings
}

type SetReady struct {
	Meta
	Ready bool `json:"ready"`
}

type PlayCards struct {
	Meta
	Cards []string `json:"cards"`
}

type UpdateRoomSettings struct {
	Meta
	Settings RoomSettings `json:"settings"`
}

type MoveSeat struct {
	Meta
	SlotIndex int `json:"slotIndex"`
}

type TributeCard struct {
	Meta
	Card string `json:"card"`
}

func NewCreateRoom(username, roomName string, s RoomSettings) Intent {
	return Intent{Event: IntentCreateRoom, Data: CreateRoom{Meta: NewMeta("", username), RoomName: roomName, RoomSettings: s}}
}

func NewJoinRoom(username, roomID string) Intent {
	return Intent{Event: IntentJoinRoom, Data: NewMeta(roomID, username)}
}

func NewSetReady(m Meta, ready bool) Intent {
	return Intent{Event: IntentSetReady, Data: SetReady{Meta: m, Ready: ready}}
}

func NewStartGame(m Meta) Intent {
	return Intent{Event: IntentStartGame, Data: m}
}

func NewPlayCards(m Meta, cards []card.Card) Intent {
	return Intent{Event: IntentPlayCards, Data: PlayCards{Meta: m, Cards: card.Strings(cards)}}
}

func NewPassTurn(m Meta) Intent {
	return Intent{Event: IntentPassTurn, Data: m}
}

func NewEndRound(m Meta) Intent {
	return Intent{Event: IntentEndRound, Data: m}
}

func NewUpdateRoomSettings(m Meta, s RoomSettings) Intent {
	return Intent{Event: IntentUpdateRoomSettings, Data: UpdateRoomSettings{Meta: m, Settings: s}}
}

func NewMoveSeat(m Meta, slot int) Intent {
	return Intent{Event: IntentMoveSeat, Data: MoveSeat{Meta: m, SlotIndex: slot}}
}

func NewPayTribute(m Meta, c card.Card) Intent {
	return Intent{Event: IntentPayTribute, Data: TributeCard{Meta: m, Card: string(c)}}
}

func NewReturnTribute(m Meta, c card.Card) Intent {
	return Intent{Event: IntentReturnTribute, Data: TributeCard{Meta: m, Card: string(c)}}
}
