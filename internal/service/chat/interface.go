package chat

import (
	"context"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

type RescueRepo interface {
	Get(ctx context.Context, id int64) (*models.Rescue, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Rescue, error)
	Touch(ctx context.Context, id int64, at time.Time) (*models.Rescue, error)
}

type MessageRepo interface {
	Create(ctx context.Context, m *models.ChatMessage) (*models.ChatMessage, error)
	ListByRescue(ctx context.Context, rescueID int64) ([]*models.ChatMessage, error)
}

type TeamDirectory interface {
	Members(ctx context.Context, teamID int64) ([]int64, error)
}

type Publisher interface {
	PublishRescueEvent(ctx context.Context, e models.RescueEvent) error
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, t types.NotificationType, data models.NotificationData) error
}

type Locker interface {
	Lock(ctx context.Context, key int64) (func(), error)
}
