package microservices

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cast"

	"github.com/Temutjin2k/rescue-coordination/config"
	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler"
	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/server"
	"github.com/Temutjin2k/rescue-coordination/internal/adapter/memory"
	"github.com/Temutjin2k/rescue-coordination/internal/service/auth"
	"github.com/Temutjin2k/rescue-coordination/internal/service/chat"
	"github.com/Temutjin2k/rescue-coordination/internal/service/hub"
	"github.com/Temutjin2k/rescue-coordination/internal/service/notification"
	"github.com/Temutjin2k/rescue-coordination/internal/service/relay"
	"github.com/Temutjin2k/rescue-coordination/internal/service/rescue"
	"github.com/Temutjin2k/rescue-coordination/pkg/keymutex"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/scheduler"
	ws "github.com/Temutjin2k/rescue-coordination/pkg/wsHub"
)

// Standalone keeps all state in process memory. It serves a single instance and is
// meant for development and demos.
type Standalone struct {
	hub        *hub.Hub
	conns      *ws.ConnectionHub
	cron       *scheduler.Cron
	httpServer *server.API
	cancel     context.CancelFunc

	cfg config.Config
	log logger.Logger
}

func NewStandalone(ctx context.Context, cfg config.Config, log logger.Logger) (*Standalone, error) {
	ctx = wrap.WithAction(ctx, "init_standalone")

	store := memory.NewStore(cfg.Rescue.GridCellSize)
	rescueRepo := memory.NewRescueRepo(store)

	teams := memory.NewTeamDirectory(store)
	memberships, err := parseTeams(cfg.Rescue.StandaloneTeams)
	if err != nil {
		log.Error(ctx, "invalid standalone teams", err)
		return nil, err
	}
	for teamID, members := range memberships {
		for _, userID := range members {
			teams.AddMember(teamID, userID)
		}
	}

	h, err := newHub(cfg, log)
	if err != nil {
		return nil, err
	}
	dispatcher := hub.NewDispatcher(h, nil)

	tx := memory.NewTxManager(store)
	locks := keymutex.New[int64]()

	notifier := notification.New(memory.NewNotificationRepo(store), dispatcher, log)
	svc := services{
		rescue:       rescue.New(rescueRepo, memory.NewCandidateRepo(store), teams, dispatcher, notifier, locks, tx, rescueConfig(cfg), log),
		relay:        relay.New(rescueRepo, memory.NewThrottle(time.Minute), dispatcher, locks, tx, cfg.Rescue.ThrottleInterval, log),
		chat:         chat.New(rescueRepo, memory.NewMessageRepo(store), teams, dispatcher, notifier, locks, tx, cfg.Rescue.ChatMaxLength, log),
		notification: notifier,
		auth:         auth.NewAuthService(auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL), teams, log),
	}

	conns := ws.NewConnHub(log)
	api, err := newAPI(cfg, svc, h, conns, map[string]handler.Check{}, log)
	if err != nil {
		h.Close()
		log.Error(ctx, "failed to setup http server", err)
		return nil, err
	}

	cron, err := newScheduler(context.Background(), rescueRepo, h, log)
	if err != nil {
		h.Close()
		return nil, err
	}

	log.Info(ctx, "standalone mode initialized", "teams", len(memberships))

	return &Standalone{
		hub:        h,
		conns:      conns,
		cron:       cron,
		httpServer: api,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (s *Standalone) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "standalone service closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(ctx, errCh)
	s.cron.Start()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	}
}

func (s *Standalone) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	s.hub.Close()
	s.conns.Close()
	if err := s.httpServer.Stop(ctx); err != nil {
		s.log.Warn(ctx, "failed to gracefully close http server", "error", err.Error())
	}
	s.cancel()
	s.cron.Stop()
}

// parseTeams reads memberships written as "team:user,user;team:user".
func parseTeams(raw string) (map[int64][]int64, error) {
	teams := make(map[int64][]int64)

	for entry := range strings.SplitSeq(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		team, members, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("team entry %q: missing ':'", entry)
		}
		teamID, err := cast.ToInt64E(strings.TrimSpace(team))
		if err != nil || teamID <= 0 {
			return nil, fmt.Errorf("team entry %q: invalid team id", entry)
		}

		for member := range strings.SplitSeq(members, ",") {
			member = strings.TrimSpace(member)
			if member == "" {
				continue
			}
			userID, err := cast.ToInt64E(member)
			if err != nil || userID <= 0 {
				return nil, fmt.Errorf("team entry %q: invalid user id %q", entry, member)
			}
			teams[teamID] = append(teams[teamID], userID)
		}
	}

	return teams, nil
}
