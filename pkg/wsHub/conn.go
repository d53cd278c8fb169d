package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 64 * 1024
)

var ErrConnClosed = errors.New("connection closed")

// Conn is a websocket connection safe for concurrent writers.
type Conn struct {
	conn    *websocket.Conn
	id      uuid.UUID
	doneCtx context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex // serializes writes
}

func NewConn(ctx context.Context, id uuid.UUID, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	return &Conn{
		conn:    conn,
		id:      id,
		doneCtx: ctx,
		cancel:  cancel,
	}
}

func (c *Conn) ID() uuid.UUID {
	return c.id
}

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.doneCtx.Done()
}

// Ping sends a ping control frame.
func (c *Conn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.doneCtx.Err(); err != nil {
		return ErrConnClosed
	}
	if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Send writes msg as a JSON text frame.
func (c *Conn) Send(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.doneCtx.Err(); err != nil {
		return ErrConnClosed
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return nil
}

// Listen reads frames until the peer goes away or handler fails.
// Pongs extend the read deadline, so a peer that stops answering pings is dropped.
func (c *Conn) Listen(handler func(msg json.RawMessage) error) error {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if c.doneCtx.Err() != nil {
			return ErrConnClosed
		}

		var msg json.RawMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read failed: %w", err)
		}
		if err := handler(msg); err != nil {
			return fmt.Errorf("handler failed: %w", err)
		}
	}
}

// Close sends a close frame and closes the underlying connection. Safe to call twice.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.doneCtx.Err() != nil {
		return nil
	}
	c.cancel()

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	return c.conn.Close()
}
