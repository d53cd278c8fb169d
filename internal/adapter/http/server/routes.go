package server

import (
	"context"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Temutjin2k/rescue-coordination/docs/rescue"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System Health
	a.mux.HandleFunc("GET /health", a.routes.Health.HealthCheck)

	a.setupMetricsRoute()
	a.setupSwaggerRoutes()

	if a.routes.Rescue != nil {
		a.setupRescueRoutes()
	}
	if a.routes.Location != nil {
		a.setupLocationRoutes()
	}
	if a.routes.Chat != nil {
		a.setupChatRoutes()
	}
	if a.routes.Notification != nil {
		a.setupNotificationRoutes()
	}
	if a.routes.Stream != nil {
		a.mux.HandleFunc("GET /api/rescue/stream", a.routes.Stream.Rescues)                             // SSE viewport stream
		a.mux.Handle("GET /api/notifications/stream", a.m.RequireAuth(a.routes.Stream.Notifications)) // SSE notification stream
	}
	if a.routes.Viewport != nil {
		a.mux.HandleFunc("GET /ws/rescue", a.routes.Viewport.Serve) // WebSocket viewport stream
	}
}

// setupRescueRoutes setups record, candidate and assignment routes
func (a *API) setupRescueRoutes() {
	h := a.routes.Rescue

	a.mux.Handle("POST /api/rescue", a.m.RequireAuth(h.Create))         // Report a rescue
	a.mux.Handle("POST /api/rescue/request", a.m.RequireAuth(h.Create)) // Path used by older clients
	a.mux.HandleFunc("GET /api/rescue/all", h.List)                     // Rescues inside a viewport
	a.mux.Handle("GET /api/rescue/my", a.m.RequireAuth(h.Mine))         // Rescues of the caller
	a.mux.HandleFunc("GET /api/rescue/hotspot", h.Hotspot)              // Densest cluster
	a.mux.HandleFunc("GET /api/rescue/{id}", h.Get)
	a.mux.Handle("PATCH /api/rescue/{id}", a.m.RequireAuth(h.Update)) // Resolve or update assistance

	a.mux.Handle("POST /api/rescue/{id}/candidates", a.m.RequireAuth(h.Register))
	a.mux.Handle("GET /api/rescue/{id}/candidates", a.m.RequireAuth(h.Candidates))
	a.mux.Handle("POST /api/rescue/{id}/candidates/{candidateId}/reject", a.m.RequireAuth(h.Reject))
	a.mux.Handle("POST /api/rescue/{id}/assign", a.m.RequireAuth(h.Assign))
}

func (a *API) setupLocationRoutes() {
	a.mux.Handle("POST /api/rescue/{id}/location", a.m.RequireAuth(a.routes.Location.Report)) // Rescuer position
	a.mux.HandleFunc("GET /api/rescue/{id}/distance", a.routes.Location.Distance)            // Rescuer distance
}

func (a *API) setupChatRoutes() {
	a.mux.Handle("POST /api/rescue/{id}/messages", a.m.RequireAuth(a.routes.Chat.Post))
	a.mux.Handle("GET /api/rescue/{id}/messages", a.m.RequireAuth(a.routes.Chat.List))
}

func (a *API) setupNotificationRoutes() {
	a.mux.Handle("GET /api/notifications", a.m.RequireAuth(a.routes.Notification.List))
	a.mux.Handle("POST /api/notifications/{id}/read", a.m.RequireAuth(a.routes.Notification.MarkRead))
}

// setupSwaggerRoutes serves the Swagger UI when enabled
func (a *API) setupSwaggerRoutes() {
	if !a.cfg.Server.SwaggerEnable {
		a.log.Debug(wrap.WithAction(context.Background(), "setup swagger routes"), "swagger UI disabled")
		return
	}

	swaggerURL := httpSwagger.InstanceName(rescue.SwaggerInfo.InstanceName())
	a.mux.HandleFunc("GET /swagger/", httpSwagger.Handler(swaggerURL))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func (a *API) setupMetricsRoute() {
	a.mux.Handle("GET /metrics", promhttp.Handler())
}
