package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/metrics"
	"github.com/Temutjin2k/rescue-coordination/pkg/rabbit"
)

const (
	RescueExchange       = "rescue_topic"
	NotificationExchange = "notification_topic"

	publishRetries = 3
	publishBackoff = 500 * time.Millisecond
)

// RescueKey is the routing key of a rescue event, e.g. "rescue.assigned".
func RescueKey(kind types.EventKind) string {
	return "rescue." + kind.String()
}

// NotificationKey is the routing key of a notification, e.g. "notification.rescue_message".
func NotificationKey(t types.NotificationType) string {
	return "notification." + t.String()
}

// RescueBroker publishes rescue events and notifications to topic exchanges so that other
// instances and the notification delivery collaborator receive them.
type RescueBroker struct {
	client *rabbit.RabbitMQ
	l      logger.Logger
}

// NewRescueBroker declares both exchanges.
func NewRescueBroker(ctx context.Context, client *rabbit.RabbitMQ, log logger.Logger) (*RescueBroker, error) {
	for _, ex := range []string{RescueExchange, NotificationExchange} {
		if err := client.DeclareTopic(ctx, ex); err != nil {
			return nil, err
		}
	}
	return &RescueBroker{client: client, l: log}, nil
}

// PublishRescueEvent sends e to 'rescue_topic' with key 'rescue.{kind}'.
func (b *RescueBroker) PublishRescueEvent(ctx context.Context, e models.RescueEvent) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_rescue_event")
	ctx = wrap.WithRescueID(ctx, e.RescueID)
	return b.publish(ctx, RescueExchange, RescueKey(e.Kind), e)
}

// PublishNotification sends n to 'notification_topic' with key 'notification.{type}'.
func (b *RescueBroker) PublishNotification(ctx context.Context, n models.Notification) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_notification")
	ctx = wrap.WithUserID(ctx, n.UserID)
	return b.publish(ctx, NotificationExchange, NotificationKey(n.Type), n)
}

func (b *RescueBroker) publish(ctx context.Context, exchange, key string, msg any) (err error) {
	defer func() { metrics.RecordRabbitMQPublish(exchange, err) }()

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	err = retry(ctx, publishRetries, publishBackoff, func() error {
		ch, err := b.client.Channel(ctx)
		if err != nil {
			return err
		}
		return ch.PublishWithContext(
			ctx,
			exchange,
			key,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:   "application/json",
				CorrelationId: wrap.RequestID(ctx),
				Body:          body,
				Timestamp:     time.Now(),
			},
		)
	})
	if err != nil {
		b.l.Error(ctx, "publish failed", err, "exchange", exchange, "key", key)
		return wrap.Error(ctx, fmt.Errorf("publish %s/%s: %w", exchange, key, err))
	}
	return nil
}
