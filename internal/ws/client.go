package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// Client wraps one websocket connection with a buffered outbound queue.
// Writes go through WritePump only; Send never blocks the caller.
type Client struct {
	conn *websocket.Conn
	send chan any

	pingInterval  time.Duration
	writeDeadline time.Duration

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn, pingInterval, writeDeadline time.Duration) *Client {
	return &Client{
		conn:          conn,
		send:          make(chan any, 256),
		pingInterval:  pingInterval,
		writeDeadline: writeDeadline,
	}
}

// Send enqueues an event for delivery. Returns false when the client is
// closed or the queue is full (the event is dropped).
func (c *Client) Send(v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- v:
		return true
	default:
		return false
	}
}

// Close shuts the outbound queue. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// WritePump drains the outbound queue onto the socket and keeps the
// connection alive with pings. It returns when the queue is closed or a
// write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case v, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeDeadline))
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeDeadline))
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(time.Second)); err != nil {
				return
			}
		}
	}
}
