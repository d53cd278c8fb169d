package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/rescue-coordination/config"
	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler"
	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/rescue-coordination/internal/adapter/http/ws"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

const (
	serverIPAddress = "%s:%s"
	serviceName     = "rescue"
)

// Handlers groups the HTTP handlers served by the API. Health is required; the others
// are mounted when set.
type Handlers struct {
	Rescue       *handler.Rescue
	Location     *handler.Location
	Chat         *handler.Chat
	Notification *handler.Notification
	Stream       *handler.Stream
	Viewport     *wshandler.Viewport
	Health       *handler.Health
}

type API struct {
	mode    types.ServiceMode
	mux     *http.ServeMux
	server  *http.Server
	routes  Handlers
	m       *middleware.Middleware
	limiter *middleware.RateLimiter

	addr string
	cfg  config.Config
	log  logger.Logger
}

func New(cfg config.Config, routes Handlers, authService middleware.AuthService, logger logger.Logger) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}
	if routes.Health == nil {
		return nil, errors.New("health handler is required")
	}
	if !cfg.Mode.IsValid() {
		return nil, fmt.Errorf("invalid mode: %s", cfg.Mode)
	}

	api := &API{
		mode:    cfg.Mode,
		mux:     http.NewServeMux(),
		routes:  routes,
		m:       middleware.NewMiddleware(authService, logger),
		limiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TTL),
		addr:    fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Server.Port),
		cfg:     cfg,
		log:     logger,
	}

	api.setupRoutes()

	// no write timeout: event streams stay open
	api.server = &http.Server{
		Addr:              api.addr,
		Handler:           api.withMiddleware(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	return api, nil
}

// Handler returns the mux wrapped in the middleware chain.
func (a *API) Handler() http.Handler {
	return a.server.Handler
}

func (a *API) Stop(ctx context.Context) error {
	timeout := a.cfg.Server.StopTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

// Run starts serving in the background and evicting idle rate-limit buckets until ctx ends.
func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go a.limiter.Cleanup(ctx)

	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr, "mode", a.mode)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(
		a.m.RequestID(
			a.m.Logging(
				a.m.Metrics(serviceName, a.mux)(
					a.m.RateLimit(a.limiter, serviceName)(
						a.m.Auth(a.mux),
					),
				),
			),
		),
	)
}
