package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wricardo/game-relay/relay/registry"
	"github.com/wricardo/game-relay/transport/websocket"
)

func newTestServer() (*Server, *registry.Registry) {
	reg := registry.New()
	hub := websocket.NewHub()
	return NewServer(reg, hub), reg
}

func doRequest(t *testing.T, server *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	server, _ := newTestServer()

	w := doRequest(t, server, "GET", "/health")

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestHandleListRooms(t *testing.T) {
	server, reg := newTestServer()

	t.Run("empty registry", func(t *testing.T) {
		w := doRequest(t, server, "GET", "/api/rooms")

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var body struct {
			Count int                 `json:"count"`
			Rooms []registry.RoomInfo `json:"rooms"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body.Count != 0 {
			t.Errorf("Expected 0 rooms, got %d", body.Count)
		}
	})

	t.Run("with live rooms", func(t *testing.T) {
		id, _ := reg.CreateRoom()
		reg.Join(id, "client-a", registry.StateBlob{"state": "X"})

		w := doRequest(t, server, "GET", "/api/rooms")

		var body struct {
			Count int                 `json:"count"`
			Rooms []registry.RoomInfo `json:"rooms"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body.Count != 1 {
			t.Fatalf("Expected 1 room, got %d", body.Count)
		}
		room := body.Rooms[0]
		if room.ID != id || room.MemberCount != 1 || !room.HasState {
			t.Errorf("Unexpected room snapshot: %+v", room)
		}
	})
}

func TestHandleGetRoom(t *testing.T) {
	server, reg := newTestServer()
	id, _ := reg.CreateRoom()
	reg.Join(id, "client-a", registry.StateBlob{"state": "X"})

	t.Run("existing room", func(t *testing.T) {
		w := doRequest(t, server, "GET", "/api/rooms/"+id)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body["id"] != id {
			t.Errorf("Expected id %s, got %v", id, body["id"])
		}
		if body["member_count"] != float64(1) {
			t.Errorf("Expected member_count 1, got %v", body["member_count"])
		}
		state, ok := body["game_state"].(map[string]interface{})
		if !ok || state["state"] != "X" {
			t.Errorf("Expected game_state with marker X, got %v", body["game_state"])
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		w := doRequest(t, server, "GET", "/api/rooms/000000")

		if w.Code != http.StatusNotFound {
			t.Fatalf("Expected status 404, got %d", w.Code)
		}

		var body map[string]string
		json.NewDecoder(w.Body).Decode(&body)
		if body["error"] != "No Game with ID 000000" {
			t.Errorf("Unexpected error message: %q", body["error"])
		}
	})
}

func TestHandleStats(t *testing.T) {
	server, reg := newTestServer()
	id, _ := reg.CreateRoom()
	reg.Join(id, "client-a", registry.StateBlob{"state": "X"})
	reg.SetCurrentRoom("client-a", id)

	w := doRequest(t, server, "GET", "/api/stats")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["rooms"] != float64(1) {
		t.Errorf("Expected 1 room, got %v", body["rooms"])
	}
	if body["room_members"] != float64(1) {
		t.Errorf("Expected 1 room member, got %v", body["room_members"])
	}
	if body["connected_clients"] != float64(0) {
		t.Errorf("Expected 0 connected clients, got %v", body["connected_clients"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server, _ := newTestServer()

	w := doRequest(t, server, "POST", "/api/rooms")

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}
