// Package protocol converts between game-server frames and client-side types.
//
// Frames look like {"event": "<topic>", "data": {...}}. Payload keys are read
// leniently: camelCase names first, then the snake_case spellings older
// servers emitted. Whether a key was present at all is preserved, since the
// reducer merges partial payloads.
package protocol

import (
	"errors"
	"fmt"

	"GuandanClient/internal/game/event"

	"github.com/tidwall/gjson"
)

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrMissingEvent   = errors.New("frame has no event name")
)

// legacy topic names
var aliases = map[string]event.Kind{
	"error_msg": event.KindError,
}

func Decode(frame []byte) (event.Event, error) {
	if !gjson.ValidBytes(frame) {
		return nil, ErrMalformedFrame
	}
	root := gjson.ParseBytes(frame)
	name := root.Get("event").String()
	if name == "" {
		return nil, ErrMissingEvent
	}
	return DecodeEvent(name, root.Get("data"))
}

// DecodeEvent builds the typed event for one topic. Unknown topics become event.Unknown.
func DecodeEvent(name string, data gjson.Result) (event.Event, error) {
	kind := event.Kind(name)
	if k, ok := aliases[name]; ok {
		kind = k
	}
	if kind != event.KindError && data.Exists() && !data.IsObject() && data.Type != gjson.Null {
		return nil, fmt.Errorf("%s: %w: data is not an object", name, ErrMalformedFrame)
	}

	switch kind {
	case event.KindRoomJoined:
		return event.RoomJoined{
			RoomID:    first(data, "roomId", "room_id").String(),
			Username:  first(data, "username").String(),
			Seats:     seats(data),
			Levels:    levels(first(data, "levels")),
			Teams:     teams(first(data, "teams")),
			Settings:  settings(data),
			LevelRank: rank(first(data, "levelRank", "level_rank")),
		}, nil

	case event.KindRoomUpdate:
		return event.RoomUpdate{
			Seats:       seats(data),
			ReadyStates: readyStates(first(data, "readyStates", "ready_states")),
			Levels:      levels(first(data, "levels")),
			Teams:       teams(first(data, "teams")),
			Settings:    settings(data),
		}, nil

	case event.KindDealHand:
		return event.DealHand{
			ForPlayer: first(data, "forPlayer", "for_player", "username", "player").String(),
			Hand:      cards(first(data, "hand")),
		}, nil

	case event.KindGameStarted:
		return event.GameStarted{
			CurrentTurnPlayer: first(data, "currentTurnPlayer", "current_player", "currentPlayer").String(),
			Levels:            levels(first(data, "levels")),
			Teams:             teams(first(data, "teams")),
			Settings:          settings(data),
			LevelRank:         rank(first(data, "levelRank", "level_rank")),
			HandsByPlayer:     hands(first(data, "handsByPlayer", "hands")),
		}, nil

	case event.KindGameUpdate:
		return event.GameUpdate{
			CurrentTurnPlayer: optString(first(data, "currentTurnPlayer", "current_player", "currentPlayer")),
			LastPlay:          play(first(data, "lastPlay", "current_play", "currentPlay")),
			CanEndRound:       optBool(first(data, "canEndRound", "can_end_round")),
			PassedPlayers:     names(first(data, "passedPlayers", "passed_players")),
			LastPlayType:      optString(first(data, "lastPlayType", "last_play_type")),
			Levels:            levels(first(data, "levels")),
			Teams:             teams(first(data, "teams")),
			Settings:          settings(data),
			LevelRank:         rank(first(data, "levelRank", "level_rank")),
			HandsByPlayer:     hands(first(data, "handsByPlayer", "hands")),
			FinishOrder:       names(first(data, "finishOrder", "finish_order")),
		}, nil

	case event.KindHandOver:
		return event.HandOver{Result: result(first(data, "result"))}, nil

	case event.KindRoundSummary:
		return event.RoundSummary{
			FinishOrder: names(first(data, "finishOrder", "finish_order")).Value,
			Result:      result(first(data, "result")),
		}, nil

	case event.KindTributeStart:
		return event.TributeStart{
			Tributes: pairs(first(data, "tributes")),
			RoomID:   first(data, "roomId", "room_id").String(),
		}, nil

	case event.KindTributeUpdate:
		return event.TributeUpdate{State: tributeState(data)}, nil

	case event.KindTributePromptReturn:
		return event.TributePromptReturn{State: tributeState(data)}, nil

	case event.KindTributeComplete:
		return event.TributeComplete{
			HandsByPlayer: hands(first(data, "handsByPlayer", "hands")).Value,
		}, nil

	case event.KindGameOver:
		return event.GameOver{
			FinishOrder:   names(first(data, "finishOrder", "finish_order")).Value,
			HandsByPlayer: hands(first(data, "handsByPlayer", "hands")).Value,
			Levels:        levels(first(data, "levels")),
			Teams:         teams(first(data, "teams")),
			Settings:      settings(data),
			LevelRank:     rank(first(data, "levelRank", "level_rank")),
			WinType:       first(data, "winType", "win_type").String(),
			WinningTeam:   names(first(data, "winningTeam", "winning_team")).Value,
			LevelUp:       int(first(data, "levelUp", "level_up").Int()),
		}, nil

	case event.KindError:
		msg := data.String()
		if data.IsObject() {
			msg = first(data, "message", "msg", "error").String()
		}
		return event.Error{Message: msg}, nil
	}

	return event.Unknown{Name: name}, nil
}
