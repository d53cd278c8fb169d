package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const throttlePrefix = "rescue:throttle:"

// Throttle admits at most one event per key per interval across every instance sharing
// the Redis server. The key lives for interval, so admission is a single SET NX.
type Throttle struct {
	client *goredis.Client
}

func NewThrottle(r *Redis) *Throttle {
	return &Throttle{client: r.Client}
}

func (t *Throttle) Allow(ctx context.Context, key string, now time.Time, interval time.Duration) (bool, error) {
	if interval <= 0 {
		return true, nil
	}
	ok, err := t.client.SetNX(ctx, throttlePrefix+key, now.UnixMilli(), interval).Result()
	if err != nil {
		return false, fmt.Errorf("throttle %s: %w", key, err)
	}
	return ok, nil
}
