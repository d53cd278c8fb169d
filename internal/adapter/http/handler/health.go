package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type Health struct {
	serviceName string
	mode        string
	checks      map[string]Check
	log         logger.Logger
}

func NewHealth(serviceName, mode string, checks map[string]Check, log logger.Logger) *Health {
	return &Health{
		serviceName: serviceName,
		mode:        mode,
		checks:      checks,
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Returns the health status of the service and its dependencies
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /health [get]
func (a *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status, code := "available", http.StatusOK
	deps := make(map[string]string, len(a.checks))
	for name, check := range a.checks {
		if err := check(ctx); err != nil {
			a.log.Warn(ctx, "dependency check failed", "dependency", name, "error", err.Error())
			deps[name] = "unavailable"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	response := envelope{
		"status": status,
		"system_info": map[string]string{
			"service-name": a.serviceName,
			"mode":         a.mode,
		},
		"dependencies": deps,
	}

	if err := writeJSON(w, code, response, nil); err != nil {
		a.log.Error(ctx, "healthcheck", err)
		return
	}
}
