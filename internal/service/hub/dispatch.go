package hub

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
)

// RemotePublisher forwards events to other instances and to the notification delivery
// collaborator.
type RemotePublisher interface {
	PublishRescueEvent(ctx context.Context, e models.RescueEvent) error
	PublishNotification(ctx context.Context, n models.Notification) error
}

// Dispatcher hands events to the local hub first and then to the remote publisher, if any.
// Remote copies that come back to this instance are dropped by the hub as duplicates.
type Dispatcher struct {
	hub    *Hub
	remote RemotePublisher
}

func NewDispatcher(h *Hub, remote RemotePublisher) *Dispatcher {
	return &Dispatcher{hub: h, remote: remote}
}

func (d *Dispatcher) PublishRescueEvent(ctx context.Context, e models.RescueEvent) error {
	d.hub.Publish(ctx, e)
	if d.remote == nil {
		return nil
	}
	if err := d.remote.PublishRescueEvent(ctx, e); err != nil {
		return fmt.Errorf("failed to publish %s event remotely: %w", e.Kind, err)
	}
	return nil
}

func (d *Dispatcher) PublishNotification(ctx context.Context, n models.Notification) error {
	d.hub.Notify(ctx, n)
	if d.remote == nil {
		return nil
	}
	if err := d.remote.PublishNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to publish notification remotely: %w", err)
	}
	return nil
}
