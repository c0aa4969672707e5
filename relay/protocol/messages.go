package protocol

import "github.com/wricardo/game-relay/relay/registry"

// Inbound event types.
const (
	EventJoinGame        = "joinGame"
	EventUpdateGameState = "updateGameState"
)

// Outbound event types.
const (
	EventConnected  = "connected"
	EventGameError  = "gameError"
	EventInitUpdate = "initUpdate"
	EventUpdate     = "update"
	EventPlayerLeft = "playerLeft"
)

// Message is the JSON envelope for every inbound and outbound relay event.
// Fields are omitted when empty, so each event carries only what it needs.
type Message struct {
	Type      string             `json:"type"`
	SessionID string             `json:"sessionId,omitempty"`
	GameState registry.StateBlob `json:"gameState,omitempty"`
	ClientID  string             `json:"clientId,omitempty"`
	PlayerID  string             `json:"playerId,omitempty"`
	Message   string             `json:"message,omitempty"`
}
