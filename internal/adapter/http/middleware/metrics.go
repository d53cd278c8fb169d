package middleware

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/rescue-coordination/pkg/metrics"
)

// Router resolves the route pattern of a request without serving it.
type Router interface {
	Handler(r *http.Request) (http.Handler, string)
}

// Metrics records HTTP metrics. The route pattern is used as the path label to keep
// the label set bounded; inner middlewares copy the request, so it is looked up on the
// router rather than read from r.Pattern.
func (m *Middleware) Metrics(serviceName string, router Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip metrics endpoint to avoid recursion
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			metrics.HttpRequestsInFlight.WithLabelValues(serviceName).Inc()
			defer metrics.HttpRequestsInFlight.WithLabelValues(serviceName).Dec()

			rw := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			_, path := router.Handler(r)
			if path == "" {
				path = "unmatched"
			}
			metrics.RecordHTTPMetrics(serviceName, r.Method, path, rw.Status(), time.Since(start))
		})
	}
}
