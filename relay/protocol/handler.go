package protocol

import (
	"fmt"
	"log"

	"github.com/wricardo/game-relay/relay/registry"
)

// Sender is the group-delivery surface of the connection substrate. The
// handler uses it to address individual clients and room groups; it never
// touches connections directly. All sends are fire-and-forget.
type Sender interface {
	// ToClient delivers a message to a single connected client.
	ToClient(clientID string, msg *Message)

	// ToRoom delivers a message to every client in a room group.
	ToRoom(sessionID string, msg *Message)

	// JoinGroup adds a client's connection to a room group.
	JoinGroup(clientID, sessionID string)

	// LeaveGroup removes a client's connection from a room group.
	LeaveGroup(clientID, sessionID string)
}

// Handler interprets the relay protocol: the joinGame and updateGameState
// operations plus the connect and disconnect lifecycle events. It validates
// against the registry, mutates it when an operation is accepted, and
// decides what to broadcast or reject.
//
// The handler is invoked exclusively from the hub's dispatch goroutine, so
// the multi-step join sequence (check, create, validate, commit) never
// interleaves with another operation on the same room.
type Handler struct {
	registry *registry.Registry
	sender   Sender
}

// NewHandler creates a protocol handler backed by the given registry and
// delivery surface.
func NewHandler(reg *registry.Registry, sender Sender) *Handler {
	return &Handler{
		registry: reg,
		sender:   sender,
	}
}

// HandleConnect acknowledges a new connection with its assigned client ID.
func (h *Handler) HandleConnect(clientID string) {
	h.sender.ToClient(clientID, &Message{
		Type:     EventConnected,
		ClientID: clientID,
	})
}

// HandleDisconnect removes a departing client from its room, if any, and
// notifies the remaining member. The client's own connection is already
// gone; the departure notice targets the other peer.
func (h *Handler) HandleDisconnect(clientID string) {
	log.Printf("Client disconnected: %s", clientID)

	sessionID, _ := h.registry.Leave(clientID)
	if sessionID == "" {
		return
	}

	h.sender.LeaveGroup(clientID, sessionID)
	h.sender.ToRoom(sessionID, &Message{
		Type:     EventPlayerLeft,
		PlayerID: clientID,
	})

	log.Printf("%s disconnected from room %s", clientID, sessionID)
}

// HandleJoin processes a joinGame request, which both creates rooms and
// joins existing ones. A client can only be a member of one room at a time;
// joining elsewhere supersedes any prior membership.
func (h *Handler) HandleJoin(clientID string, msg *Message) {
	// Joining supersedes prior membership, silently. The prior room is
	// deleted if this empties it, and the client stops receiving its
	// broadcasts.
	if prev, ok := h.registry.CurrentRoomOf(clientID); ok {
		h.registry.Leave(clientID)
		h.sender.LeaveGroup(clientID, prev)
	}

	if msg.SessionID != "" {
		if !h.registry.RoomExists(msg.SessionID) {
			h.reject(clientID, fmt.Sprintf("No Game with ID %s", msg.SessionID))
			return
		}
		if h.registry.MemberCount(msg.SessionID) >= registry.MaxMembers {
			h.reject(clientID, fmt.Sprintf("Game with ID %s is full", msg.SessionID))
			return
		}
	}

	if msg.SessionID == "" && msg.GameState == nil {
		h.reject(clientID, "No GameId or GameState")
		return
	}

	sessionID := msg.SessionID
	if sessionID == "" {
		var err error
		sessionID, err = h.registry.CreateRoom()
		if err != nil {
			h.reject(clientID, fmt.Sprintf("Could not create game: %v", err))
			return
		}
	}

	// Joining without a blob inherits the room's stored state.
	state := msg.GameState
	if state == nil {
		state = h.registry.CurrentState(sessionID)
	}

	if !state.Valid() {
		h.dropRoom(sessionID)
		h.reject(clientID, fmt.Sprintf("GameState Missing %s", sessionID))
		return
	}

	// The room can vanish between the checks above and this commit if the
	// other member leaves; Join re-checks under the registry's lock.
	if err := h.registry.Join(sessionID, clientID, state); err != nil {
		h.reject(clientID, fmt.Sprintf("No Game with ID %s", sessionID))
		return
	}

	h.registry.SetCurrentRoom(clientID, sessionID)
	h.sender.JoinGroup(clientID, sessionID)

	h.sender.ToRoom(sessionID, &Message{
		Type:      EventInitUpdate,
		SessionID: sessionID,
		GameState: state,
	})
}

// HandleUpdate relays a state update to the room group. Updates are pure
// broadcast: the registry's stored state only changes at join time.
func (h *Handler) HandleUpdate(clientID string, msg *Message) {
	if current, ok := h.registry.CurrentRoomOf(clientID); ok && current != msg.SessionID {
		h.reject(clientID, fmt.Sprintf("Client not in game %s", msg.SessionID))
		return
	}

	if !h.registry.RoomExists(msg.SessionID) {
		h.reject(clientID, fmt.Sprintf("No Game with ID %s", msg.SessionID))
		return
	}

	h.sender.ToRoom(msg.SessionID, &Message{
		Type:      EventUpdate,
		GameState: msg.GameState,
	})
}

// HandleMessage dispatches an inbound message by type.
func (h *Handler) HandleMessage(clientID string, msg *Message) {
	switch msg.Type {
	case EventJoinGame:
		h.HandleJoin(clientID, msg)
	case EventUpdateGameState:
		h.HandleUpdate(clientID, msg)
	default:
		log.Printf("Unknown message type %q from %s", msg.Type, clientID)
	}
}

// reject reports an error to the originating client only. Rejections are
// never fatal to the relay or to other clients' sessions.
func (h *Handler) reject(clientID, message string) {
	log.Printf("Rejected %s: %s", clientID, message)
	h.sender.ToClient(clientID, &Message{
		Type:    EventGameError,
		Message: message,
	})
}

// dropRoom deletes a room and removes every member from its delivery group,
// so a later room under a reused ID cannot reach stale listeners.
func (h *Handler) dropRoom(sessionID string) {
	for _, member := range h.registry.Members(sessionID) {
		h.sender.LeaveGroup(member, sessionID)
	}
	h.registry.DeleteRoom(sessionID)
}
