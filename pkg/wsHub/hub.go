package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub tracks every open websocket connection so they can be closed on shutdown.
type ConnectionHub struct {
	clients map[uuid.UUID]*Conn
	l       logger.Logger
	mu      sync.Mutex
}

func NewConnHub(l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		clients: make(map[uuid.UUID]*Conn),
		l:       l,
	}
}

// Add registers a connection. A connection with the same id is closed and replaced.
func (h *ConnectionHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	existing, ok := h.clients[newConn.id]
	h.clients[newConn.id] = newConn
	h.mu.Unlock()

	if ok && existing != newConn {
		ctx := wrap.WithAction(context.Background(), "add_ws_connection")
		h.l.Warn(ctx, "replacing existing connection", "conn_id", existing.id.String())
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx, "failed to close existing conn", "conn_id", existing.id.String(), "err", err.Error())
		}
	}

	return nil
}

// Delete closes and forgets a connection.
func (h *ConnectionHub) Delete(id uuid.UUID) error {
	h.mu.Lock()
	conn, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}

	if err := conn.Close(); err != nil {
		h.l.Warn(wrap.WithAction(context.Background(), "ws_connection_delete"),
			"failed to close conn", "conn_id", id.String(), "err", err.Error())
	}
	return nil
}

// GetConn returns a connection by id.
func (h *ConnectionHub) GetConn(id uuid.UUID) (*Conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[id]
	if !ok {
		return nil, ErrConnIsNotFound
	}
	return conn, nil
}

func (h *ConnectionHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close closes every websocket connection.
func (h *ConnectionHub) Close() {
	h.mu.Lock()
	clients := make([]*Conn, 0, len(h.clients))
	for _, conn := range h.clients {
		clients = append(clients, conn)
	}
	h.clients = make(map[uuid.UUID]*Conn)
	h.mu.Unlock()

	for _, conn := range clients {
		_ = conn.Close()
	}

	h.l.Info(wrap.WithAction(context.Background(), "hub_close"), "all websocket connections closed gracefully", "count", len(clients))
}
