package microservices

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Temutjin2k/rescue-coordination/config"
	"github.com/Temutjin2k/rescue-coordination/internal/adapter/cache"
	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler"
	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/server"
	repo "github.com/Temutjin2k/rescue-coordination/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/rescue-coordination/internal/adapter/rabbit"
	redisadapter "github.com/Temutjin2k/rescue-coordination/internal/adapter/redis"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/service/auth"
	"github.com/Temutjin2k/rescue-coordination/internal/service/chat"
	"github.com/Temutjin2k/rescue-coordination/internal/service/hub"
	"github.com/Temutjin2k/rescue-coordination/internal/service/notification"
	"github.com/Temutjin2k/rescue-coordination/internal/service/relay"
	"github.com/Temutjin2k/rescue-coordination/internal/service/rescue"
	"github.com/Temutjin2k/rescue-coordination/pkg/keymutex"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/postgres"
	"github.com/Temutjin2k/rescue-coordination/pkg/rabbit"
	"github.com/Temutjin2k/rescue-coordination/pkg/scheduler"
	"github.com/Temutjin2k/rescue-coordination/pkg/trm"
	ws "github.com/Temutjin2k/rescue-coordination/pkg/wsHub"
)

// RescueService is the production composition: PostgreSQL storage, RabbitMQ fan-out
// between instances and a Redis location throttle.
type RescueService struct {
	postgresDB *postgres.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	redis      *redisadapter.Redis

	hub        *hub.Hub
	conns      *ws.ConnectionHub
	consumer   *rabbitadapter.StreamConsumer
	cron       *scheduler.Cron
	httpServer *server.API
	cancel     context.CancelFunc

	cfg config.Config
	log logger.Logger
}

func NewRescue(ctx context.Context, cfg config.Config, log logger.Logger) (_ *RescueService, err error) {
	ctx = wrap.WithAction(ctx, "init_rescue_service")
	s := &RescueService{cfg: cfg, log: log}

	// release whatever was opened if a later step fails
	defer func() {
		if err != nil {
			s.close(ctx)
		}
	}()

	s.postgresDB, err = postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "failed to setup database", err)
		return nil, err
	}
	if cfg.Database.Migrate {
		if err = repo.Migrate(ctx, s.postgresDB.Pool, log); err != nil {
			log.Error(ctx, "failed to migrate database", err)
			return nil, err
		}
	}

	s.rabbitMQ, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		log.Error(ctx, "failed to connect to rabbitmq", err)
		return nil, err
	}
	broker, err := rabbitadapter.NewRescueBroker(ctx, s.rabbitMQ, log)
	if err != nil {
		log.Error(ctx, "failed to setup rabbitmq exchanges", err)
		return nil, err
	}
	s.consumer = rabbitadapter.NewStreamConsumer(s.rabbitMQ, log)

	s.redis, err = redisadapter.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Error(ctx, "failed to connect to redis", err)
		return nil, err
	}

	s.hub, err = newHub(cfg, log)
	if err != nil {
		return nil, err
	}
	s.conns = ws.NewConnHub(log)
	dispatcher := hub.NewDispatcher(s.hub, broker)

	// repositories
	pool := s.postgresDB.Pool
	rescueRepo := repo.NewRescueRepo(pool)
	candidateRepo := repo.NewCandidateRepo(pool)
	messageRepo := repo.NewMessageRepo(pool)
	notificationRepo := repo.NewNotificationRepo(pool)
	teams := cache.NewTeamDirectory(repo.NewTeamDirectory(pool), cfg.Auth.TeamCacheSize, cfg.Auth.TeamCacheTTL)

	tx := trm.New(pool)
	locks := keymutex.New[int64]()

	// services
	notifier := notification.New(notificationRepo, dispatcher, log)
	svc := services{
		rescue:       rescue.New(rescueRepo, candidateRepo, teams, dispatcher, notifier, locks, tx, rescueConfig(cfg), log),
		relay:        relay.New(rescueRepo, redisadapter.NewThrottle(s.redis), dispatcher, locks, tx, cfg.Rescue.ThrottleInterval, log),
		chat:         chat.New(rescueRepo, messageRepo, teams, dispatcher, notifier, locks, tx, cfg.Rescue.ChatMaxLength, log),
		notification: notifier,
		auth:         auth.NewAuthService(auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL), teams, log),
	}

	checks := map[string]handler.Check{
		"postgres": func(ctx context.Context) error { return pool.Ping(ctx) },
		"rabbitmq": s.rabbitMQ.EnsureConnection,
		"redis":    func(ctx context.Context) error { return s.redis.Client.Ping(ctx).Err() },
	}

	s.httpServer, err = newAPI(cfg, svc, s.hub, s.conns, checks, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		return nil, err
	}

	s.cron, err = newScheduler(context.Background(), rescueRepo, s.hub, log)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *RescueService) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "rescue service closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(ctx, errCh)

	// events published by any instance, this one included, reach local subscribers
	// through the consumers; the hub drops the copies it has already seen
	go s.consumer.ConsumeRescueEvents(ctx, func(ctx context.Context, e models.RescueEvent) error {
		s.hub.Publish(ctx, e)
		return nil
	})
	go s.consumer.ConsumeNotifications(ctx, func(ctx context.Context, n models.Notification) error {
		s.hub.Notify(ctx, n)
		return nil
	})

	s.cron.Start()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	s.log.Info(ctx, "rescue service started", "mode", s.cfg.Mode)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	}
}

// close ends the live streams first so that the HTTP server does not wait for them.
func (s *RescueService) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if s.hub != nil {
		s.hub.Close()
	}
	if s.conns != nil {
		s.conns.Close()
	}
	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "failed to gracefully close http server", "error", err.Error())
		}
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.rabbitMQ != nil {
		if err := s.rabbitMQ.Close(ctx); err != nil {
			s.log.Warn(ctx, "failed to close rabbitmq", "error", err.Error())
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Warn(ctx, "failed to close redis", "error", err.Error())
		}
	}
	s.postgresDB.Close()
}
