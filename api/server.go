package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"github.com/wricardo/game-relay/relay/registry"
	"github.com/wricardo/game-relay/transport/websocket"
)

// Server exposes the relay's WebSocket endpoint and a read-only REST
// surface for inspecting live rooms.
type Server struct {
	registry *registry.Registry
	hub      *websocket.Hub
	router   *mux.Router
}

// NewServer creates a new API server.
func NewServer(reg *registry.Registry, hub *websocket.Hub) *Server {
	s := &Server{
		registry: reg,
		hub:      hub,
		router:   mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Room inspection (read-only; rooms are created and destroyed through
	// the relay protocol, never through HTTP)
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{id}", s.handleGetRoom).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Health check
	s.router.HandleFunc("/health", s.handleHealth)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Handlers

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.registry.List()

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	if !s.registry.RoomExists(sessionID) {
		respondError(w, http.StatusNotFound, "No Game with ID "+sessionID)
		return
	}

	response := map[string]interface{}{
		"id":           sessionID,
		"members":      s.registry.Members(sessionID),
		"member_count": s.registry.MemberCount(sessionID),
	}
	if state := s.registry.CurrentState(sessionID); state != nil {
		response["game_state"] = state
	}

	respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rooms":             s.registry.Count(),
		"room_members":      s.registry.ClientCount(),
		"connected_clients": s.hub.ClientCount(),
		"time":              time.Now().UTC(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
