package registry

import (
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"strconv"
	"sync"
	"time"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrIDSpaceExhausted = errors.New("no free room ID available")
)

// MaxMembers is the room capacity. The registry itself does not enforce it;
// the protocol layer checks capacity before committing a join.
const MaxMembers = 2

const (
	// Session IDs are 6 decimal digits, short enough for manual entry.
	idMin  = 100000
	idSpan = 900000

	// CreateRoom retries on collision, up to this many draws.
	maxIDAttempts = 50
)

// Room is a rendezvous point for up to two clients sharing a state blob.
type Room struct {
	ID        string
	Members   []string // client IDs, ordered by join time
	State     StateBlob
	CreatedAt time.Time
}

// RoomInfo is a read-only snapshot of a room for inspection surfaces.
type RoomInfo struct {
	ID          string    `json:"id"`
	Members     []string  `json:"members"`
	MemberCount int       `json:"member_count"`
	HasState    bool      `json:"has_state"`
	CreatedAt   time.Time `json:"created_at"`
}

// Registry is the authoritative store of rooms and of the reverse index
// mapping each client to its current room. It exclusively owns both maps;
// all mutation goes through its methods, each of which is atomic.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	clients map[string]string // client ID -> session ID
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		clients: make(map[string]string),
	}
}

// CreateRoom generates a fresh session ID not currently in use, inserts an
// empty room under it, and returns the ID.
func (r *Registry) CreateRoom() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < maxIDAttempts; i++ {
		id := randomSessionID()
		if _, taken := r.rooms[id]; taken {
			continue
		}
		r.rooms[id] = &Room{
			ID:        id,
			State:     StateBlob{},
			CreatedAt: time.Now(),
		}
		return id, nil
	}

	return "", ErrIDSpaceExhausted
}

// Join appends clientID to the room's member set and replaces the room's
// state with the given blob. It does not check capacity and does not touch
// the reverse index; both are the caller's responsibility, so that the
// capacity check, the commit, and the reverse-index write stay within one
// logical protocol operation.
func (r *Registry) Join(sessionID, clientID string, state StateBlob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[sessionID]
	if !ok {
		return ErrRoomNotFound
	}

	room.Members = append(room.Members, clientID)
	room.State = state
	return nil
}

// SetCurrentRoom records the reverse-index mapping for a client. Called by
// the protocol layer immediately after a successful Join.
func (r *Registry) SetCurrentRoom(clientID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[clientID] = sessionID
}

// Leave removes clientID from whatever room the reverse index maps it to.
// It returns the session ID the client was removed from and whether the
// room was deleted because it became empty.
//
// Leave is idempotent: a client with no reverse-index entry is a no-op.
// A reverse-index entry pointing at a room that no longer exists is cleared
// and treated as a no-op for the room.
func (r *Registry) Leave(clientID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionID, ok := r.clients[clientID]
	if !ok {
		return "", false
	}
	delete(r.clients, clientID)

	room, ok := r.rooms[sessionID]
	if !ok {
		// Dangling reverse-index entry; the room was already deleted.
		return "", false
	}

	for i, m := range room.Members {
		if m == clientID {
			room.Members = append(room.Members[:i], room.Members[i+1:]...)
			break
		}
	}

	if len(room.Members) == 0 {
		delete(r.rooms, sessionID)
		log.Printf("Room %s deleted", sessionID)
		return sessionID, true
	}

	return sessionID, false
}

// DeleteRoom removes a room outright, regardless of membership. Used when a
// join attempt leaves a room without a valid state blob. Reverse-index
// entries of any remaining members stay behind; Leave clears them when it
// finds them dangling.
func (r *Registry) DeleteRoom(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[sessionID]; ok {
		delete(r.rooms, sessionID)
		log.Printf("Room %s deleted", sessionID)
	}
}

// RoomExists reports whether a room with the given session ID is live.
func (r *Registry) RoomExists(sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[sessionID]
	return ok
}

// MemberCount returns the number of members in a room, or 0 if the room
// does not exist.
func (r *Registry) MemberCount(sessionID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[sessionID]
	if !ok {
		return 0
	}
	return len(room.Members)
}

// Members returns a copy of a room's member list in join order.
func (r *Registry) Members(sessionID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[sessionID]
	if !ok {
		return nil
	}
	members := make([]string, len(room.Members))
	copy(members, room.Members)
	return members
}

// CurrentState returns the room's stored state blob, or nil if the room
// does not exist or its stored blob lacks the required marker.
func (r *Registry) CurrentState(sessionID string) StateBlob {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[sessionID]
	if !ok {
		return nil
	}
	if !room.State.Valid() {
		return nil
	}
	return room.State
}

// CurrentRoomOf returns the session ID the reverse index maps the client to.
func (r *Registry) CurrentRoomOf(clientID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessionID, ok := r.clients[clientID]
	return sessionID, ok
}

// Count returns the number of live rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// ClientCount returns the number of clients currently mapped to a room.
func (r *Registry) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// List returns snapshots of all live rooms.
func (r *Registry) List() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]RoomInfo, 0, len(r.rooms))
	for _, room := range r.rooms {
		members := make([]string, len(room.Members))
		copy(members, room.Members)
		result = append(result, RoomInfo{
			ID:          room.ID,
			Members:     members,
			MemberCount: len(room.Members),
			HasState:    room.State.Valid(),
			CreatedAt:   room.CreatedAt,
		})
	}
	return result
}

// randomSessionID draws a 6-digit decimal ID from [100000, 999999] using
// cryptographic randomness.
func randomSessionID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(idSpan))
	if err != nil {
		log.Panic("Failed to generate session ID:", err)
	}
	return strconv.Itoa(idMin + int(n.Int64()))
}
