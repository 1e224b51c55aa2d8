package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single write to a subscriber.
	writeWait = 10 * time.Second
	// pongWait is how long a subscriber may stay silent.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound request frames.
	maxMessageSize = 4096
	// sendBuffer is the per-subscriber outbound queue. A full queue
	// drops the message; delivery is at-most-once best effort.
	sendBuffer = 32
)

// Client is one connected live-feed subscriber. ctx spans the
// connection's lifetime and is cancelled on unregister, so in-flight
// requests for a gone subscriber stop instead of running to
// completion against storage.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:     uuid.NewString(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the subscriber's connection id.
func (c *Client) ID() string { return c.id }

// enqueue queues a frame for the subscriber without blocking. Frames
// are dropped when the subscriber cannot keep up.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// sendEnvelope marshals and queues one event for this subscriber only.
func (c *Client) sendEnvelope(event string, data any) bool {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return false
	}
	return c.enqueue(payload)
}

// sendError reports a per-request failure to this subscriber without
// disconnecting it.
func (c *Client) sendError(message string) {
	c.sendEnvelope(EventError, ErrorPayload{Message: message})
}

// writePump serializes all outbound frames for one subscriber.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump dispatches inbound subscriber requests until the connection
// drops, then unregisters the subscriber.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.hub.handleRequest(c, payload)
	}
}
