// Package protocol implements the relay's message protocol.
//
// The protocol package interprets two inbound operations (joinGame,
// updateGameState) and two lifecycle events (connect, disconnect). It
// consults and mutates the room registry and emits outbound events either
// to the originating client (connected, gameError) or to a whole room
// group (initUpdate, update, playerLeft).
//
// Per-client state machine:
//
//	Connected(no room) <-> Connected(in room R)
//
// A successful join moves the client into a room; leave, disconnect, or
// room deletion moves it back out. Joining a new room while already in one
// silently supersedes the prior membership.
//
// Delivery:
//
// The handler addresses clients and room groups through the Sender
// interface supplied by the connection substrate. Sends are fire-and-forget;
// slow or disconnected recipients never stall an operation.
//
// Errors:
//
// Every rejection goes to the requesting client only, as a gameError event
// with a human-readable message naming the error and the relevant ID. No
// rejection affects other clients or the relay process.
package protocol
