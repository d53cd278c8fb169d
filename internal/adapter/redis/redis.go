package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Temutjin2k/rescue-coordination/config"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

type Redis struct {
	Client *goredis.Client
}

// NewRedis connects and pings the server, failing fast when it is unreachable.
func NewRedis(ctx context.Context, cfg config.RedisConfig, log logger.Logger) (*Redis, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx = wrap.WithAction(ctx, "redis_connect")
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error(ctx, "failed to ping redis", err, "addr", cfg.Addr)
		if cerr := rdb.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	log.Info(ctx, "connected to redis", "addr", cfg.Addr)

	return &Redis{Client: rdb}, nil
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
