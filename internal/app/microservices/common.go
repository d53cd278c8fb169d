package microservices

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/rescue-coordination/config"
	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler"
	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/server"
	wshandler "github.com/Temutjin2k/rescue-coordination/internal/adapter/http/ws"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/internal/service/auth"
	"github.com/Temutjin2k/rescue-coordination/internal/service/chat"
	"github.com/Temutjin2k/rescue-coordination/internal/service/hub"
	"github.com/Temutjin2k/rescue-coordination/internal/service/notification"
	"github.com/Temutjin2k/rescue-coordination/internal/service/relay"
	"github.com/Temutjin2k/rescue-coordination/internal/service/rescue"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	"github.com/Temutjin2k/rescue-coordination/pkg/metrics"
	"github.com/Temutjin2k/rescue-coordination/pkg/scheduler"
	ws "github.com/Temutjin2k/rescue-coordination/pkg/wsHub"
)

const serviceName = "rescue"

// services are the domain services behind the HTTP surface, shared by both modes.
type services struct {
	rescue       *rescue.Service
	relay        *relay.Service
	chat         *chat.Service
	notification *notification.Service
	auth         *auth.AuthService
}

func newHub(cfg config.Config, log logger.Logger) (*hub.Hub, error) {
	h, err := hub.New(hub.Config{
		Buffer:    cfg.Stream.SubscriberBuffer,
		SeqWindow: cfg.Stream.SeqWindow,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream hub: %w", err)
	}
	return h, nil
}

func rescueConfig(cfg config.Config) rescue.Config {
	return rescue.Config{
		DefaultLimit:     cfg.Rescue.DefaultLimit,
		MaxLimit:         cfg.Rescue.MaxLimit,
		HotspotPrecision: cfg.Rescue.HotspotPrecision,
	}
}

func newAPI(cfg config.Config, svc services, h *hub.Hub, conns *ws.ConnectionHub, checks map[string]handler.Check, log logger.Logger) (*server.API, error) {
	return server.New(cfg, server.Handlers{
		Rescue:       handler.NewRescue(svc.rescue, log),
		Location:     handler.NewLocation(svc.relay, log),
		Chat:         handler.NewChat(svc.chat, log),
		Notification: handler.NewNotification(svc.notification, log),
		Stream:       handler.NewStream(h, cfg.Stream.KeepAlive, cfg.Stream.ClientRetry, log),
		Viewport:     wshandler.NewViewport(h, conns, cfg.Stream.KeepAlive, log),
		Health:       handler.NewHealth(serviceName, string(cfg.Mode), checks, log),
	}, svc.auth, log)
}

type stateCounter interface {
	CountByState(ctx context.Context) (map[types.RescueState]int, error)
}

// newScheduler registers the gauge refresh jobs. The scheduler is started by the caller.
func newScheduler(ctx context.Context, rescues stateCounter, h *hub.Hub, log logger.Logger) (*scheduler.Cron, error) {
	cron := scheduler.New(ctx, log)

	jobs := []scheduler.Job{
		{
			Name:    "refresh_rescue_gauges",
			Spec:    "@every 30s",
			Timeout: 10 * time.Second,
			Run: func(ctx context.Context) error {
				counts, err := rescues.CountByState(ctx)
				if err != nil {
					return err
				}
				for _, state := range []types.RescueState{types.StateOpen, types.StateAssigned, types.StateResolved} {
					metrics.SetRescuesByState(string(state), counts[state])
				}
				return nil
			},
		},
		{
			Name: "refresh_stream_gauges",
			Spec: "@every 15s",
			Run: func(ctx context.Context) error {
				st := h.Stats()
				metrics.SetStreamSubscribers("viewport", st.Viewport)
				metrics.SetStreamSubscribers("notification", st.Notification)
				return nil
			},
		},
	}

	for _, job := range jobs {
		if _, err := cron.Add(job); err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", job.Name, err)
		}
	}
	return cron, nil
}
