// Package websocket provides WebSocket transport for the game relay.
//
// The websocket package implements:
//   - Real-time bidirectional communication
//   - Per-connection client IDs assigned at upgrade time
//   - Room-group delivery for relay broadcasts
//   - Connection lifecycle management
//   - A single dispatch loop serializing all relay events
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each connection is handled by a dedicated pair of
// goroutines for reading and writing. Everything else (registration,
// disconnection, inbound messages, group membership) funnels through the
// hub's Run loop, which invokes the protocol handler one event at a time.
//
// Message Protocol:
//
// Frames are JSON-encoded protocol.Message envelopes:
//   - Incoming: {type: "joinGame", sessionId: "123456", gameState: {...}}
//   - Outgoing: connected, gameError, initUpdate, update, playerLeft events
//
// Delivery:
//
// The hub implements protocol.Sender. Sends are fire-and-forget: each
// client has a buffered send channel drained by its write pump, and a full
// buffer drops the frame rather than stalling the dispatch loop.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.SetHandler(protocol.NewHandler(reg, hub))
//	go hub.Run()
//
//	http.HandleFunc("/ws", hub.ServeWS)
//
// Connection Lifecycle:
//
// 1. Client connects and receives its assigned client ID
// 2. Client joins or creates a room via joinGame
// 3. State updates are broadcast to the room group
// 4. Disconnection removes the client from its room and notifies the peer
package websocket
