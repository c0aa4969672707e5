package registry

import (
	"strconv"
	"sync"
	"testing"
)

func validState() StateBlob {
	return StateBlob{"state": "X"}
}

func TestRegistry_CreateRoom(t *testing.T) {
	reg := New()

	t.Run("creates room with 6-digit ID", func(t *testing.T) {
		id, err := reg.CreateRoom()
		if err != nil {
			t.Fatalf("Failed to create room: %v", err)
		}
		if len(id) != 6 {
			t.Errorf("Expected 6-character session ID, got %d characters", len(id))
		}
		n, err := strconv.Atoi(id)
		if err != nil {
			t.Fatalf("Session ID is not numeric: %v", err)
		}
		if n < 100000 || n > 999999 {
			t.Errorf("Session ID %d outside [100000, 999999]", n)
		}
		if !reg.RoomExists(id) {
			t.Error("Created room does not exist")
		}
		if reg.MemberCount(id) != 0 {
			t.Errorf("Expected empty room, got %d members", reg.MemberCount(id))
		}
	})

	t.Run("IDs are unique among live rooms", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id, err := reg.CreateRoom()
			if err != nil {
				t.Fatalf("Failed to create room %d: %v", i, err)
			}
			if seen[id] {
				t.Fatalf("Duplicate session ID %s", id)
			}
			seen[id] = true
		}
	})

	t.Run("empty room has no valid state", func(t *testing.T) {
		id, _ := reg.CreateRoom()
		if state := reg.CurrentState(id); state != nil {
			t.Errorf("Expected nil state for fresh room, got %v", state)
		}
	})
}

func TestRegistry_Join(t *testing.T) {
	reg := New()
	id, _ := reg.CreateRoom()

	t.Run("join existing room", func(t *testing.T) {
		if err := reg.Join(id, "client-a", validState()); err != nil {
			t.Fatalf("Failed to join: %v", err)
		}
		if reg.MemberCount(id) != 1 {
			t.Errorf("Expected 1 member, got %d", reg.MemberCount(id))
		}
		state := reg.CurrentState(id)
		if state == nil || state["state"] != "X" {
			t.Errorf("Expected stored state X, got %v", state)
		}
	})

	t.Run("join replaces stored state", func(t *testing.T) {
		if err := reg.Join(id, "client-b", StateBlob{"state": "Y"}); err != nil {
			t.Fatalf("Failed to join: %v", err)
		}
		state := reg.CurrentState(id)
		if state == nil || state["state"] != "Y" {
			t.Errorf("Expected stored state Y, got %v", state)
		}
	})

	t.Run("members ordered by join time", func(t *testing.T) {
		members := reg.Members(id)
		if len(members) != 2 || members[0] != "client-a" || members[1] != "client-b" {
			t.Errorf("Expected [client-a client-b], got %v", members)
		}
	})

	t.Run("join non-existent room", func(t *testing.T) {
		if err := reg.Join("000000", "client-c", validState()); err != ErrRoomNotFound {
			t.Errorf("Expected ErrRoomNotFound, got %v", err)
		}
	})
}

func TestRegistry_Leave(t *testing.T) {
	t.Run("leave removes member and keeps room", func(t *testing.T) {
		reg := New()
		id, _ := reg.CreateRoom()
		reg.Join(id, "client-a", validState())
		reg.SetCurrentRoom("client-a", id)
		reg.Join(id, "client-b", validState())
		reg.SetCurrentRoom("client-b", id)

		sessionID, deleted := reg.Leave("client-a")
		if sessionID != id {
			t.Errorf("Expected session %s, got %s", id, sessionID)
		}
		if deleted {
			t.Error("Room should not be deleted while a member remains")
		}
		if !reg.RoomExists(id) {
			t.Error("Room vanished with a member still in it")
		}
		if reg.MemberCount(id) != 1 {
			t.Errorf("Expected 1 remaining member, got %d", reg.MemberCount(id))
		}
		if _, ok := reg.CurrentRoomOf("client-a"); ok {
			t.Error("Reverse index entry not cleared on leave")
		}
	})

	t.Run("last member leaving deletes the room", func(t *testing.T) {
		reg := New()
		id, _ := reg.CreateRoom()
		reg.Join(id, "client-a", validState())
		reg.SetCurrentRoom("client-a", id)

		sessionID, deleted := reg.Leave("client-a")
		if sessionID != id || !deleted {
			t.Errorf("Expected (%s, true), got (%s, %v)", id, sessionID, deleted)
		}
		if reg.RoomExists(id) {
			t.Error("Empty room still observable after leave")
		}
	})

	t.Run("leave is idempotent", func(t *testing.T) {
		reg := New()
		sessionID, deleted := reg.Leave("nobody")
		if sessionID != "" || deleted {
			t.Errorf("Expected no-op, got (%s, %v)", sessionID, deleted)
		}
	})

	t.Run("dangling reverse index is cleared", func(t *testing.T) {
		reg := New()
		id, _ := reg.CreateRoom()
		reg.Join(id, "client-a", validState())
		reg.SetCurrentRoom("client-a", id)
		reg.DeleteRoom(id)

		sessionID, deleted := reg.Leave("client-a")
		if sessionID != "" || deleted {
			t.Errorf("Expected no-op for dangling entry, got (%s, %v)", sessionID, deleted)
		}
		if _, ok := reg.CurrentRoomOf("client-a"); ok {
			t.Error("Dangling reverse index entry not cleared")
		}
	})
}

func TestRegistry_CurrentState(t *testing.T) {
	reg := New()
	id, _ := reg.CreateRoom()

	t.Run("absent room", func(t *testing.T) {
		if state := reg.CurrentState("000000"); state != nil {
			t.Errorf("Expected nil for absent room, got %v", state)
		}
	})

	t.Run("state without marker is treated as absent", func(t *testing.T) {
		reg.Join(id, "client-a", StateBlob{"board": "..."})
		if state := reg.CurrentState(id); state != nil {
			t.Errorf("Expected nil for markerless state, got %v", state)
		}
	})

	t.Run("state with marker", func(t *testing.T) {
		reg.Join(id, "client-b", validState())
		state := reg.CurrentState(id)
		if state == nil || state["state"] != "X" {
			t.Errorf("Expected state X, got %v", state)
		}
	})
}

func TestStateBlob_Valid(t *testing.T) {
	tests := []struct {
		name string
		blob StateBlob
		want bool
	}{
		{"nil blob", nil, false},
		{"empty blob", StateBlob{}, false},
		{"missing marker", StateBlob{"board": "xo."}, false},
		{"nil marker", StateBlob{"state": nil}, false},
		{"empty string marker", StateBlob{"state": ""}, false},
		{"false marker", StateBlob{"state": false}, false},
		{"zero marker", StateBlob{"state": float64(0)}, false},
		{"string marker", StateBlob{"state": "playing"}, true},
		{"structured marker", StateBlob{"state": map[string]any{"turn": "x"}}, true},
		{"numeric marker", StateBlob{"state": float64(1)}, true},
		{"true marker", StateBlob{"state": true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.blob.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			clientID := "client-" + strconv.Itoa(n)

			id, err := reg.CreateRoom()
			if err != nil {
				t.Errorf("CreateRoom failed: %v", err)
				return
			}
			if err := reg.Join(id, clientID, validState()); err != nil {
				t.Errorf("Join failed: %v", err)
				return
			}
			reg.SetCurrentRoom(clientID, id)

			if got, ok := reg.CurrentRoomOf(clientID); !ok || got != id {
				t.Errorf("CurrentRoomOf(%s) = (%s, %v), want (%s, true)", clientID, got, ok, id)
			}

			reg.Leave(clientID)
		}(i)
	}
	wg.Wait()

	if reg.Count() != 0 {
		t.Errorf("Expected all rooms cleaned up, %d remain", reg.Count())
	}
	if reg.ClientCount() != 0 {
		t.Errorf("Expected all clients cleared, %d remain", reg.ClientCount())
	}
}
