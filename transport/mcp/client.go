package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/game-relay/relay/registry"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Game Relay",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Game Relay - MCP Interface

This is a thin client that proxies all requests to the relay's REST API.

ABOUT THE RELAY:
The relay rendezvous up to two clients per room, keyed by a 6-digit
session ID, and rebroadcasts their opaque game state to each other over
WebSocket. The MCP surface is read-only: rooms are created and destroyed
by the relay protocol itself, not by these tools.

AVAILABLE TOOLS:
- list_rooms: List all live rooms with member counts
- get_room: Get one room's members and anchored game state
- relay_stats: Get room and connection counts`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all live relay rooms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_room",
		Description: "Get details of a specific room: members and the state anchored at join time",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "6-digit session ID of the room",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "relay_stats",
		Description: "Get relay statistics: live rooms, room members, connected clients",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleRelayStats)
}

// GetMCPServer returns the underlying MCP server, for mounting on stdio or HTTP.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
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

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                 `json:"count"`
		Rooms []registry.RoomInfo `json:"rooms"`
	}

	err := c.apiCall("GET", "/api/rooms", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Live Rooms (%d):\n\n", response.Count)
	for _, room := range response.Rooms {
		result += fmt.Sprintf("- %s (%d/%d members, state anchored: %v, created: %s)\n",
			room.ID, room.MemberCount, registry.MaxMembers, room.HasState,
			room.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var room struct {
		ID          string             `json:"id"`
		Members     []string           `json:"members"`
		MemberCount int                `json:"member_count"`
		GameState   registry.StateBlob `json:"game_state"`
	}

	err := c.apiCall("GET", "/api/rooms/"+sessionID, nil, &room)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRoom(room.ID, room.Members, room.GameState)), nil
}

func (c *Client) handleRelayStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats struct {
		Rooms            int `json:"rooms"`
		RoomMembers      int `json:"room_members"`
		ConnectedClients int `json:"connected_clients"`
	}

	err := c.apiCall("GET", "/api/stats", nil, &stats)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Relay Statistics:\n\nLive rooms: %d\nRoom members: %d\nConnected clients: %d",
		stats.Rooms, stats.RoomMembers, stats.ConnectedClients)
	return mcp.NewToolResultText(result), nil
}

// Formatting helpers

func formatRoom(id string, members []string, state registry.StateBlob) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("Room: %s\nMembers (%d/%d):\n", id, len(members), registry.MaxMembers))
	for i, member := range members {
		result.WriteString(fmt.Sprintf("  %d. %s\n", i+1, member))
	}

	if state == nil {
		result.WriteString("\nNo anchored game state")
		return result.String()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		result.WriteString("\nGame state unavailable")
		return result.String()
	}
	result.WriteString("\nAnchored game state:\n")
	result.Write(data)

	return result.String()
}
