package relay

import (
	"context"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
)

type RescueRepo interface {
	Get(ctx context.Context, id int64) (*models.Rescue, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Rescue, error)
	UpdateRescuerLocation(ctx context.Context, id int64, lat, lng float64, at time.Time) (*models.Rescue, error)
}

// Throttle admits one event per key per interval. The check and the write are atomic.
type Throttle interface {
	Allow(ctx context.Context, key string, now time.Time, interval time.Duration) (bool, error)
}

type Publisher interface {
	PublishRescueEvent(ctx context.Context, e models.RescueEvent) error
}

type Locker interface {
	Lock(ctx context.Context, key int64) (func(), error)
}
