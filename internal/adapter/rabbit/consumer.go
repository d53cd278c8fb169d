package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/metrics"
	"github.com/Temutjin2k/rescue-coordination/pkg/rabbit"
)

const resubscribeDelay = 2 * time.Second

type (
	RescueEventHandler  func(ctx context.Context, e models.RescueEvent) error
	NotificationHandler func(ctx context.Context, n models.Notification) error
)

// StreamConsumer feeds events published by any instance back into the local stream hub.
// Each instance reads from its own exclusive queue so every instance sees every event.
type StreamConsumer struct {
	client *rabbit.RabbitMQ
	l      logger.Logger
}

func NewStreamConsumer(client *rabbit.RabbitMQ, log logger.Logger) *StreamConsumer {
	return &StreamConsumer{client: client, l: log}
}

// ConsumeRescueEvents blocks until ctx is done.
func (c *StreamConsumer) ConsumeRescueEvents(ctx context.Context, handler RescueEventHandler) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_consume_rescue_events")
	return consume(ctx, c, RescueExchange, "rescue.*", func(ctx context.Context, d amqp.Delivery) error {
		var e models.RescueEvent
		if err := json.Unmarshal(d.Body, &e); err != nil {
			return fmt.Errorf("failed to unmarshal rescue event: %w", err)
		}
		return handler(wrap.WithRescueID(ctx, e.RescueID), e)
	})
}

// ConsumeNotifications blocks until ctx is done.
func (c *StreamConsumer) ConsumeNotifications(ctx context.Context, handler NotificationHandler) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_consume_notifications")
	return consume(ctx, c, NotificationExchange, "notification.*", func(ctx context.Context, d amqp.Delivery) error {
		var n models.Notification
		if err := json.Unmarshal(d.Body, &n); err != nil {
			return fmt.Errorf("failed to unmarshal notification: %w", err)
		}
		return handler(wrap.WithUserID(ctx, n.UserID), n)
	})
}

// consume (re)declares an exclusive queue after every connection loss. Deliveries are
// handled in order; failed ones are dropped since the stream has no replay.
func consume(ctx context.Context, c *StreamConsumer, exchange, key string, handle func(context.Context, amqp.Delivery) error) error {
	for {
		if ctx.Err() != nil {
			c.l.Debug(ctx, "consumer stopped by context", "exchange", exchange)
			return nil
		}

		queue, msgs, err := c.subscribe(ctx, exchange, key)
		if err != nil {
			c.l.Error(ctx, "subscribe failed", err, "exchange", exchange)
			if !pause(ctx, resubscribeDelay) {
				return nil
			}
			continue
		}

		c.l.Info(ctx, "start consuming", "exchange", exchange, "queue", queue)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				c.l.Info(ctx, "consumer shutting down", "exchange", exchange)
				return nil

			case d, ok := <-msgs:
				if !ok {
					c.l.Warn(ctx, "delivery channel closed, resubscribing", "exchange", exchange)
					break consumeLoop
				}

				dctx := wrap.WithRequestID(ctx, d.CorrelationId)
				err := handle(dctx, d)
				metrics.RecordRabbitMQConsume(exchange, err)
				if err != nil {
					c.l.Error(wrap.ErrorCtx(dctx, err), "failed to handle delivery", err, "routing_key", d.RoutingKey)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}

		if !pause(ctx, resubscribeDelay) {
			return nil
		}
	}
}

func (c *StreamConsumer) subscribe(ctx context.Context, exchange, key string) (string, <-chan amqp.Delivery, error) {
	if err := c.client.DeclareTopic(ctx, exchange); err != nil {
		return "", nil, err
	}
	queue, err := c.client.DeclareExclusiveQueue(ctx, exchange, key)
	if err != nil {
		return "", nil, err
	}
	ch, err := c.client.Channel(ctx)
	if err != nil {
		return "", nil, err
	}
	msgs, err := ch.Consume(queue, "", false, true, false, false, nil)
	if err != nil {
		return "", nil, fmt.Errorf("consume %s: %w", queue, err)
	}
	return queue, msgs, nil
}
