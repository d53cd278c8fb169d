// Package notification records rescue lifecycle events per user and hands them to the
// live channel and the delivery collaborator.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/metrics"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Repo interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) (*models.Notification, error)
}

type Publisher interface {
	PublishNotification(ctx context.Context, n models.Notification) error
}

type Service struct {
	repo      Repo
	publisher Publisher
	now       func() time.Time
	l         logger.Logger
}

func New(repo Repo, publisher Publisher, l logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
		l:         l,
	}
}

// Notify persists a notification for the user and pushes it out. The stored id is
// monotonic and lets clients drop redeliveries.
func (s *Service) Notify(ctx context.Context, userID int64, t types.NotificationType, data models.NotificationData) error {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "notify"), data.RescueID)

	title, message := render(t, data)
	n, err := s.repo.Create(ctx, &models.Notification{
		UserID:    userID,
		Type:      t,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: s.now(),
	})
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to store notification: %w", err))
	}
	metrics.RecordNotification(t.String())

	if err := s.publisher.PublishNotification(ctx, *n); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish notification: %w", err))
	}

	s.l.Debug(ctx, "notification sent", "notification_id", n.ID, "recipient", userID, "type", t)
	return nil
}

func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*models.Notification, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, "list_notifications"), userID)

	switch {
	case limit <= 0:
		limit = defaultLimit
	case limit > maxLimit:
		limit = maxLimit
	}

	list, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list notifications: %w", err))
	}
	return list, nil
}

// MarkRead flags a notification of the user as read. Ids of other users are not found.
func (s *Service) MarkRead(ctx context.Context, id, userID int64) (*models.Notification, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, "mark_notification_read"), userID)

	n, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return n, nil
}

func render(t types.NotificationType, data models.NotificationData) (title, message string) {
	switch t {
	case types.NotificationCandidate:
		if data.TeamID != nil {
			return "New rescue candidate", fmt.Sprintf("A team offered to help with rescue #%d", data.RescueID)
		}
		return "New rescue candidate", fmt.Sprintf("A rescuer offered to help with rescue #%d", data.RescueID)
	case types.NotificationAssigned:
		return "Rescue assigned", fmt.Sprintf("You were assigned to rescue #%d", data.RescueID)
	case types.NotificationCandidateRejected:
		return "Offer declined", fmt.Sprintf("Your offer for rescue #%d was declined", data.RescueID)
	case types.NotificationMessage:
		return "New message", fmt.Sprintf("New message in rescue #%d", data.RescueID)
	case types.NotificationResolved:
		return "Rescue resolved", fmt.Sprintf("Rescue #%d was marked as resolved", data.RescueID)
	default:
		return "Rescue update", fmt.Sprintf("Rescue #%d was updated", data.RescueID)
	}
}
