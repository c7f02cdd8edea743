package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/triqui/internal/entity"
	"github.com/rocketscienceinc/triqui/internal/usecase"
)

const (
	actionConnect = "connect"
	actionError   = "error"

	actionLocalNew    = "local:new"
	actionLocalResume = "local:resume"
	actionLocalMove   = "local:move"
	actionLocalReset  = "local:reset"
	actionLocalState  = "local:state"

	actionMatchCreate  = "match:create"
	actionMatchJoin    = "match:join"
	actionMatchQuick   = "match:quick"
	actionMatchMove    = "match:move"
	actionMatchReset   = "match:reset"
	actionMatchLeave   = "match:leave"
	actionMatchAbandon = "match:abandon"
	actionMatchState   = "match:state"
	actionMatchGone    = "match:gone"

	actionSound = "sound"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload carries the arguments of every client action. Each action reads only its own fields.
type RequestPayload struct {
	Token      string `json:"token,omitempty"`
	MatchID    string `json:"match_id,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Cell       *int   `json:"cell,omitempty"`
}

type ResponsePayload struct {
	Player *entity.Player       `json:"player,omitempty"`
	Token  string               `json:"token,omitempty"`
	Local  *usecase.LocalStatus `json:"local,omitempty"`
	Match  *entity.Match        `json:"match,omitempty"`
	Sound  entity.SoundEvent    `json:"sound,omitempty"`
	Error  string               `json:"error,omitempty"`
}
