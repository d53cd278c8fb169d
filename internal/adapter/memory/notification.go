package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

type NotificationRepo struct {
	s *Store
}

func NewNotificationRepo(s *Store) *NotificationRepo {
	return &NotificationRepo{s: s}
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.notificationSeq++
	stored := cloneNotification(n)
	stored.ID = r.s.notificationSeq
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.s.notifications[stored.ID] = stored

	id := stored.ID
	record(ctx, func() { delete(r.s.notifications, id) })

	return cloneNotification(stored), nil
}

// ListByUser returns the newest notifications of the user first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.Notification
	for _, n := range r.s.notifications {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, cloneNotification(n))
	}
	slices.SortFunc(out, func(a, b *models.Notification) int { return cmp.Compare(b.ID, a.ID) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkRead flags the notification as read. Notifications of other users are not found.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID int64) (*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.notifications[id]
	if !ok || current.UserID != userID {
		return nil, types.ErrNotificationNotFound
	}

	next := cloneNotification(current)
	next.Read = true
	r.s.notifications[id] = next
	record(ctx, func() { r.s.notifications[id] = current })

	return cloneNotification(next), nil
}
