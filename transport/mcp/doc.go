// Package mcp provides a Model Context Protocol surface for the game relay.
//
// The mcp package implements:
//   - An MCP server for AI agent integration
//   - Read-only tool definitions over the relay's REST API
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - list_rooms: List all live rooms with member counts
//   - get_room: Get one room's members and anchored game state
//   - relay_stats: Get room and connection counts
//
// The surface is deliberately read-only. Room lifecycle belongs to the
// relay protocol spoken over WebSocket; an agent that wants to participate
// in a room connects as a regular client.
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: The /mcp endpoint mounted by the main server
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	response := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
