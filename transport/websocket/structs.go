package websocket

import (
	"encoding/json"

	"github.com/gameroomlabs/tictactoe-rooms/internal/entity"
)

// Message is the envelope for every exchange: a routing action plus a
// payload whose shape depends on the action.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload covers both directions; unused fields stay empty on the wire.
type Payload struct {
	RoomID   string               `json:"room_id,omitempty"`
	Name     string               `json:"name,omitempty"`
	Position *int                 `json:"position,omitempty"`
	Symbol   string               `json:"symbol,omitempty"`
	Opponent *entity.PublicPlayer `json:"opponent,omitempty"`
	Game     *entity.GameState    `json:"game,omitempty"`
	Error    string               `json:"error,omitempty"`
}
