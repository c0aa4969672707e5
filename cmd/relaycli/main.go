// Command relaycli is a small terminal client for the game relay.
//
// It can create a room, join an existing one by its 6-digit ID, and tail
// the events the relay broadcasts to the room. It also exposes the relay's
// REST inspection endpoints for quick checks from the shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/game-relay/relay/protocol"
	"github.com/wricardo/game-relay/relay/registry"
)

func main() {
	cmd := &cli.Command{
		Name:  "relaycli",
		Usage: "terminal client for the game relay",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: "localhost:8080",
				Usage: "relay server address",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a new room and tail its events",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "state",
						Value: `{"state":"new"}`,
						Usage: "initial game state JSON (must carry the \"state\" marker)",
					},
				},
				Action: runCreate,
			},
			{
				Name:      "join",
				Usage:     "join an existing room by session ID and tail its events",
				ArgsUsage: "<session-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "state",
						Usage: "game state JSON to replace the room's anchored state (optional)",
					},
				},
				Action: runJoin,
			},
			{
				Name:   "rooms",
				Usage:  "list live rooms",
				Action: runRooms,
			},
			{
				Name:   "stats",
				Usage:  "show relay statistics",
				Action: runStats,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCreate(ctx context.Context, cmd *cli.Command) error {
	state, err := parseState(cmd.String("state"))
	if err != nil {
		return err
	}
	return joinAndTail(cmd.String("addr"), "", state)
}

func runJoin(ctx context.Context, cmd *cli.Command) error {
	sessionID := cmd.Args().First()
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	var state registry.StateBlob
	if raw := cmd.String("state"); raw != "" {
		var err error
		state, err = parseState(raw)
		if err != nil {
			return err
		}
	}
	return joinAndTail(cmd.String("addr"), sessionID, state)
}

func parseState(raw string) (registry.StateBlob, error) {
	var state registry.StateBlob
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("invalid state JSON: %w", err)
	}
	return state, nil
}

// joinAndTail connects to the relay, sends one joinGame, and prints every
// event the server delivers until the connection closes.
func joinAndTail(addr, sessionID string, state registry.StateBlob) error {
	url := fmt.Sprintf("ws://%s/ws", addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	defer conn.Close()

	// The relay acknowledges every connection with its assigned client ID.
	var connected protocol.Message
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	if err := conn.ReadJSON(&connected); err != nil {
		return fmt.Errorf("failed to read connect ack: %w", err)
	}
	fmt.Printf("connected as %s\n", connected.ClientID)

	join := protocol.Message{
		Type:      protocol.EventJoinGame,
		SessionID: sessionID,
		GameState: state,
	}
	if err := conn.WriteJSON(join); err != nil {
		return fmt.Errorf("failed to send joinGame: %w", err)
	}

	conn.SetReadDeadline(time.Time{})
	for {
		var msg protocol.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("connection closed: %w", err)
		}
		printEvent(&msg)

		if msg.Type == protocol.EventGameError {
			return fmt.Errorf("%s", msg.Message)
		}
	}
}

func printEvent(msg *protocol.Message) {
	switch msg.Type {
	case protocol.EventInitUpdate:
		fmt.Printf("[%s] joined room %s, state: %s\n", msg.Type, msg.SessionID, mustJSON(msg.GameState))
	case protocol.EventUpdate:
		fmt.Printf("[%s] %s\n", msg.Type, mustJSON(msg.GameState))
	case protocol.EventPlayerLeft:
		fmt.Printf("[%s] %s left the room\n", msg.Type, msg.PlayerID)
	case protocol.EventGameError:
		fmt.Printf("[%s] %s\n", msg.Type, msg.Message)
	default:
		fmt.Printf("[%s] %s\n", msg.Type, mustJSON(msg))
	}
}

func mustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func runRooms(ctx context.Context, cmd *cli.Command) error {
	var response struct {
		Count int                 `json:"count"`
		Rooms []registry.RoomInfo `json:"rooms"`
	}
	if err := apiGet(cmd.String("addr"), "/api/rooms", &response); err != nil {
		return err
	}

	fmt.Printf("Live rooms: %d\n", response.Count)
	for _, room := range response.Rooms {
		fmt.Printf("  %s  %d/%d members  state anchored: %v  created %s\n",
			room.ID, room.MemberCount, registry.MaxMembers, room.HasState,
			room.CreatedAt.Format("15:04:05"))
	}
	return nil
}

func runStats(ctx context.Context, cmd *cli.Command) error {
	var stats struct {
		Rooms            int `json:"rooms"`
		RoomMembers      int `json:"room_members"`
		ConnectedClients int `json:"connected_clients"`
	}
	if err := apiGet(cmd.String("addr"), "/api/stats", &stats); err != nil {
		return err
	}

	fmt.Printf("rooms: %d\nroom members: %d\nconnected clients: %d\n",
		stats.Rooms, stats.RoomMembers, stats.ConnectedClients)
	return nil
}

func apiGet(addr, path string, result interface{}) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s%s", addr, path))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
