package websocket

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/game-relay/relay/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. State blobs are opaque, so
	// leave generous headroom.
	maxMessageSize = 64 * 1024
)

// Client wraps a single WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// id is the stable per-connection client ID assigned at upgrade time.
	id string

	// room is the session ID of the client's current delivery group, if
	// any. Only the hub's dispatch goroutine touches it.
	room string

	// send is the buffered channel of outbound frames.
	send chan []byte
}

// deliver queues a frame without blocking. A full buffer drops the frame;
// a slow reader must not stall the dispatch loop.
func (c *Client) deliver(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

// readPump pumps decoded messages from the WebSocket connection to the hub.
//
// The application runs readPump in a per-connection goroutine. All reads
// happen here, so there is at most one reader per connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.hub.messages <- inbound{clientID: c.id, msg: &msg}
	}
}

// writePump pumps frames from the send channel to the WebSocket connection.
//
// A goroutine running writePump is started for each connection. All writes
// happen here, so there is at most one writer per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
