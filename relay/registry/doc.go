// Package registry provides room and membership storage for the game relay.
//
// The registry package implements:
//   - Thread-safe room storage and retrieval
//   - Unique 6-digit session ID generation
//   - Room lifecycle management (implicit creation, deletion on empty)
//   - A reverse index from client IDs to their current room
//   - Concurrent access control
//
// Core Types:
//
// Registry is the authoritative store of rooms. Room represents a single
// rendezvous point holding up to two members and the last accepted state
// blob. StateBlob is the opaque payload clients exchange; only its "state"
// marker key is visible to the relay.
//
// Session Identifiers:
//
// Rooms use 6-digit decimal IDs in the range 100000-999999, short enough
// for a player to type. The registry ensures IDs are unique among live
// rooms and generates them with cryptographic randomness, retrying a
// bounded number of times on collision.
//
// Concurrency:
//
// The registry is thread-safe. Every public operation is atomic with
// respect to every other, so callers never observe a half-applied
// mutation. Multi-step protocol sequences (create, validate, commit) are
// serialized above this package by the relay's single dispatch loop.
//
// Usage:
//
//	reg := registry.New()
//
//	id, err := reg.CreateRoom()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := reg.Join(id, clientID, state); err != nil {
//		log.Fatal(err)
//	}
//	reg.SetCurrentRoom(clientID, id)
//
// Cleanup:
//
// A room is deleted synchronously by the operation that removes its last
// member. There is no background reaper; an empty room is never observable
// after the removing operation returns.
package registry
