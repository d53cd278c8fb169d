package rabbit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	heartbeat        = 10 * time.Second
	reconnectRetries = 5
)

var ErrClosed = errors.New("rabbitmq client is closed")

// RabbitMQ holds one connection and one channel and restores both on demand.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool // closed by Close, never reconnects
	mu      sync.RWMutex
	dsn     string

	log logger.Logger
}

// New creates rabbitMQ client
func New(ctx context.Context, dsn string, log logger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{dsn: dsn, log: log}

	conn, ch, err := r.dial()
	if err != nil {
		return nil, err
	}
	r.conn, r.channel = conn, ch

	go r.monitorConnection(conn, ch)

	log.Info(wrap.WithAction(ctx, types.ActionRabbitMQConnected), "connected to rabbitMQ")

	return r, nil
}

func (r *RabbitMQ) dial() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(r.dsn, amqp.Config{Heartbeat: heartbeat})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	return conn, ch, nil
}

// monitorConnection logs the first close notification of conn or ch.
func (r *RabbitMQ) monitorConnection(conn *amqp.Connection, ch *amqp.Channel) {
	connClose := conn.NotifyClose(make(chan *amqp.Error, 1))
	chClose := ch.NotifyClose(make(chan *amqp.Error, 1))

	var closeErr *amqp.Error
	select {
	case closeErr = <-connClose:
	case closeErr = <-chClose:
	}

	ctx := wrap.WithAction(context.Background(), types.ActionRabbitConnectionClosed)
	if closeErr != nil {
		r.log.Error(ctx, "RabbitMQ connection closed with error", closeErr)
	} else {
		r.log.Debug(ctx, "RabbitMQ connection closed gracefully")
	}
}

// Channel returns the current channel, reconnecting first if the connection was lost.
func (r *RabbitMQ) Channel(ctx context.Context) (*amqp.Channel, error) {
	if err := r.EnsureConnection(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.channel == nil {
		return nil, ErrClosed
	}
	return r.channel, nil
}

// IsConnectionClosed checks if the connection is closed
func (r *RabbitMQ) IsConnectionClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isClosedLocked()
}

func (r *RabbitMQ) isClosedLocked() bool {
	return r.closed || r.conn == nil || r.conn.IsClosed() || r.channel == nil || r.channel.IsClosed()
}

// EnsureConnection reconnects if the connection or channel is gone.
func (r *RabbitMQ) EnsureConnection(ctx context.Context) error {
	if !r.IsConnectionClosed() {
		return nil
	}

	r.log.Warn(ctx, "rabbit connection closed, reconnecting...")
	if err := r.Reconnect(ctx); err != nil {
		return fmt.Errorf("failed to reconnect to RabbitMQ: %w", err)
	}
	return nil
}

// Reconnect dials again with linear backoff.
func (r *RabbitMQ) Reconnect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.dsn == "" {
		return fmt.Errorf("dsn is empty: can't reconnect")
	}
	if !r.isClosedLocked() {
		return nil
	}

	var (
		conn *amqp.Connection
		ch   *amqp.Channel
		err  error
	)
	for i := range reconnectRetries {
		conn, ch, err = r.dial()
		if err == nil {
			break
		}

		wait := time.Duration(i+1) * 2 * time.Second
		r.log.Debug(ctx, "reconnect attempt failed", "attempt", i+1, "retry_in", wait.String())

		select {
		case <-ctx.Done():
			r.log.Debug(ctx, "stopping reconnect attempts")
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	if err != nil {
		return err
	}

	r.conn, r.channel = conn, ch
	go r.monitorConnection(conn, ch)

	r.log.Info(wrap.WithAction(ctx, types.ActionRabbitReconnected), "RabbitMQ reconnected successfully")

	return nil
}

// DeclareTopic declares a durable topic exchange.
func (r *RabbitMQ) DeclareTopic(ctx context.Context, exchange string) error {
	ch, err := r.Channel(ctx)
	if err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return nil
}

// DeclareExclusiveQueue declares a server-named queue that lives as long as this connection
// and binds it to exchange with every given routing key.
func (r *RabbitMQ) DeclareExclusiveQueue(ctx context.Context, exchange string, keys ...string) (string, error) {
	ch, err := r.Channel(ctx)
	if err != nil {
		return "", err
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return "", fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range keys {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return "", fmt.Errorf("bind queue %s to %s (%s): %w", q.Name, exchange, key, err)
		}
	}
	return q.Name, nil
}

// Close closes rabbit channel and connection. The client cannot be used afterwards.
func (r *RabbitMQ) Close(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionRabbitConnectionClosing)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	ch, conn := r.channel, r.conn
	r.channel, r.conn = nil, nil
	r.mu.Unlock()

	if ch != nil {
		r.log.Debug(ctx, "closing channel")
		if err := closeWithCtxFunc(ctx, ch.Close); err != nil && ctx.Err() == nil {
			r.log.Error(ctx, "error closing channel", err)
		}
	}

	if conn != nil {
		r.log.Debug(ctx, "closing RabbitMQ connection")
		if err := closeWithCtxFunc(ctx, conn.Close); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}

	r.log.Info(wrap.WithAction(ctx, types.ActionRabbitConnectionClosed), "rabbitMQ closed")

	return nil
}

// closeWithCtxFunc runs fn but gives up waiting when ctx is done.
func closeWithCtxFunc(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
