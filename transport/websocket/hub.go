package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wricardo/game-relay/relay/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// EventHandler receives connection lifecycle events and inbound messages.
// The hub invokes it from its single dispatch goroutine, one event at a
// time, so implementations see a serialized stream.
type EventHandler interface {
	HandleConnect(clientID string)
	HandleDisconnect(clientID string)
	HandleMessage(clientID string, msg *protocol.Message)
}

// inbound pairs a decoded message with the connection it arrived on.
type inbound struct {
	clientID string
	msg      *protocol.Message
}

// Hub maintains the set of active clients and their room groups, and
// serializes all relay events through a single dispatch loop.
type Hub struct {
	handler EventHandler

	// Registered clients by client ID
	clients map[string]*Client

	// Room groups: session ID -> client ID -> client
	groups map[string]map[string]*Client

	// Inbound messages from clients
	messages chan inbound

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Connected client count, readable from other goroutines
	count atomic.Int64
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		groups:     make(map[string]map[string]*Client),
		messages:   make(chan inbound),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetHandler wires the protocol handler. Must be called before Run.
func (h *Hub) SetHandler(handler EventHandler) {
	h.handler = handler
}

// Run starts the hub's event loop. This is the single goroutine that
// touches the client and group maps and invokes the protocol handler, so
// no two operations ever interleave.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case in := <-h.messages:
			if h.handler != nil {
				h.handler.HandleMessage(in.clientID, in.msg)
			}
		}
	}
}

// ServeWS handles a WebSocket upgrade request and starts the connection's
// read and write pumps. Each connection gets a stable generated client ID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		id:   uuid.NewString(),
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// ToClient implements protocol.Sender. Delivery is fire-and-forget: if the
// client's send buffer is full the message is dropped rather than stalling
// the dispatch loop.
func (h *Hub) ToClient(clientID string, msg *protocol.Message) {
	client, ok := h.clients[clientID]
	if !ok {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}
	client.deliver(data)
}

// ToRoom implements protocol.Sender. The message goes to every current
// member of the room group, including the sender if it is a member.
func (h *Hub) ToRoom(sessionID string, msg *protocol.Message) {
	group, ok := h.groups[sessionID]
	if !ok {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal broadcast: %v", err)
		return
	}
	for _, client := range group {
		client.deliver(data)
	}
}

// JoinGroup implements protocol.Sender.
func (h *Hub) JoinGroup(clientID, sessionID string) {
	client, ok := h.clients[clientID]
	if !ok {
		return
	}
	if h.groups[sessionID] == nil {
		h.groups[sessionID] = make(map[string]*Client)
	}
	h.groups[sessionID][clientID] = client
	client.room = sessionID
}

// LeaveGroup implements protocol.Sender.
func (h *Hub) LeaveGroup(clientID, sessionID string) {
	group, ok := h.groups[sessionID]
	if !ok {
		return
	}
	delete(group, clientID)
	if len(group) == 0 {
		delete(h.groups, sessionID)
	}
	if client, ok := h.clients[clientID]; ok && client.room == sessionID {
		client.room = ""
	}
}

// registerClient adds a new connection and acknowledges it.
func (h *Hub) registerClient(client *Client) {
	h.clients[client.id] = client
	h.count.Add(1)

	log.Printf("Client registered: %s (total clients: %d)", client.id, len(h.clients))

	if h.handler != nil {
		h.handler.HandleConnect(client.id)
	}
}

// unregisterClient removes a dead connection. The connection is dropped
// from its room group before the protocol handler runs, so departure
// broadcasts reach only the remaining members.
func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client.id]; !ok {
		return
	}

	delete(h.clients, client.id)
	h.count.Add(-1)

	if client.room != "" {
		h.LeaveGroup(client.id, client.room)
	}
	close(client.send)

	log.Printf("Client unregistered: %s (total clients: %d)", client.id, len(h.clients))

	if h.handler != nil {
		h.handler.HandleDisconnect(client.id)
	}
}
