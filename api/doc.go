// Package api provides the HTTP surface for the game relay.
//
// The api package implements:
//   - The /ws WebSocket endpoint where the relay protocol is spoken
//   - Read-only REST endpoints for inspecting live rooms
//   - A health check endpoint
//
// Endpoints:
//
// Relay:
//   - GET /ws - WebSocket upgrade; all room operations happen here
//
// Inspection:
//   - GET /api/rooms - List all live rooms
//   - GET /api/rooms/{id} - Get one room's members and anchored state
//   - GET /api/stats - Room, member, and connection counts
//
// Health:
//   - GET /health - Liveness check
//
// Rooms cannot be created or destroyed over HTTP. Their lifecycle is owned
// entirely by the relay protocol: joinGame creates and joins rooms, and a
// room disappears when its last member leaves or disconnects.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
