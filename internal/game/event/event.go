// Package event defines the server-pushed events the client folds into its table state.
package event

import "GuandanClient/internal/card"

type Kind string

const (
	KindRoomJoined          Kind = "room_joined"
	KindRoomUpdate          Kind = "room_update"
	KindDealHand            Kind = "deal_hand"
	KindGameStarted         Kind = "game_started"
	KindGameUpdate          Kind = "game_update"
	KindHandOver            Kind = "hand_over"
	KindRoundSummary        Kind = "round_summary"
	KindTributeStart        Kind = "tribute_start"
	KindTributeUpdate       Kind = "tribute_update"
	KindTributePromptReturn Kind = "tribute_prompt_return"
	KindTributeComplete     Kind = "tribute_complete"
	KindGameOver            Kind = "game_over"
	KindError               Kind = "error"
)

type Event interface {
	Kind() Kind
}

// Optional marks a payload field the server may leave out.
// Set=false means "absent": the reducer keeps whatever it held.
type Optional[T any] struct {
	Set   bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Or returns the value when present, otherwise def.
func (o Optional[T]) Or(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}

type Seats [4]string

type Teams [2][]string

type Play struct {
	Player   string      `json:"player"`
	Cards    []card.Card `json:"cards"`
	HandType string      `json:"handType,omitempty"`
}

// SettingsPatch 服务端下发的房间设置，缺省字段用默认值补齐。
// Present=false 表示消息里根本没有 settings。
type SettingsPatch struct {
	Present        bool
	CardBack       Optional[string]
	WildCards      Optional[bool]
	TrumpSuit      Optional[card.Suit]
	StartingLevels Optional[[4]card.Rank]
}

type Hands map[string][]card.Card

type TributePair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TributeSnapshot is the server's view of an in-flight tribute exchange.
type TributeSnapshot struct {
	Step     Optional[string]
	Tributes Optional[[]TributePair]
	Paid     map[string]card.Card
	Returned map[string]card.Card
}

type RoundResult struct {
	Levels      map[string]card.Rank `json:"levels,omitempty"`
	Teams       *Teams               `json:"teams,omitempty"`
	Seats       *Seats               `json:"seats,omitempty"`
	WinType     string               `json:"winType,omitempty"`
	WinningTeam []string             `json:"winningTeam,omitempty"`
	LevelUp     int                  `json:"levelUp,omitempty"`
}

// ---------------------
//   EVENT PAYLOADS
// ---------------------

type RoomJoined struct {
	RoomID    string
	Username  string
	Seats     Optional[Seats]
	Levels    Optional[map[string]card.Rank]
	Teams     Optional[Teams]
	Settings  SettingsPatch
	LevelRank Optional[card.Rank]
}

type RoomUpdate struct {
	Seats       Optional[Seats]
	ReadyStates Optional[map[string]bool]
	Levels      Optional[map[string]card.Rank]
	Teams       Optional[Teams]
	Settings    SettingsPatch
}

type DealHand struct {
	ForPlayer string
	Hand      []card.Card
}

type GameStarted struct {
	CurrentTurnPlayer string
	Levels            Optional[map[string]card.Rank]
	Teams             Optional[Teams]
	Settings          SettingsPatch
	LevelRank         Optional[card.Rank]
	HandsByPlayer     Optional[Hands]
}

type GameUpdate struct {
	CurrentTurnPlayer Optional[string]
	LastPlay          Optional[*Play]
	CanEndRound       Optional[bool]
	PassedPlayers     Optional[[]string]
	LastPlayType      Optional[string]
	Levels            Optional[map[string]card.Rank]
	Teams             Optional[Teams]
	Settings          SettingsPatch
	LevelRank         Optional[card.Rank]
	HandsByPlayer     Optional[Hands]
	FinishOrder       Optional[[]string]
}

type HandOver struct {
	Result RoundResult
}

type RoundSummary struct {
	FinishOrder []string
	Result      RoundResult
}

type TributeStart struct {
	Tributes []TributePair
	RoomID   string
}

type TributeUpdate struct {
	State TributeSnapshot
}

type TributePromptReturn struct {
	State TributeSnapshot
}

type TributeComplete struct {
	HandsByPlayer Hands
}

type GameOver struct {
	FinishOrder   []string
	HandsByPlayer Hands
	Levels        Optional[map[string]card.Rank]
	Teams         Optional[Teams]
	Settings      SettingsPatch
	LevelRank     Optional[card.Rank]
	WinType       string
	WinningTeam   []string
	LevelUp       int
}

type Error struct {
	Message string
}

// Unknown 未识别的事件，reducer 原样保留状态
type Unknown struct {
	Name string
}

func (RoomJoined) Kind() Kind          { return KindRoomJoined }
func (RoomUpdate) Kind() Kind          { return KindRoomUpdate }
func (DealHand) Kind() Kind            { return KindDealHand }
func (GameStarted) Kind() Kind         { return KindGameStarted }
func (GameUpdate) Kind() Kind          { return KindGameUpdate }
func (HandOver) Kind() Kind            { return KindHandOver }
func (RoundSummary) Kind() Kind        { return KindRoundSummary }
func (TributeStart) Kind() Kind        { return KindTributeStart }
func (TributeUpdate) Kind() Kind       { return KindTributeUpdate }
func (TributePromptReturn) Kind() Kind { return KindTributePromptReturn }
func (TributeComplete) Kind() Kind     { return KindTributeComplete }
func (GameOver) Kind() Kind            { return KindGameOver }
func (Error) Kind() Kind               { return KindError }
func (u Unknown) Kind() Kind           { return Kind(u.Name) }
