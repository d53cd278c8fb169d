package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/metrics"
)

type fakeAuth struct{}

func (fakeAuth) Authenticate(_ context.Context, token string) (*models.Actor, error) {
	if token == "good" {
		return &models.Actor{UserID: 7, TeamIDs: []int64{3}}, nil
	}
	return nil, errors.New("bad token")
}

func actorEcho(w http.ResponseWriter, r *http.Request) {
	if a := models.ActorFromContext(r.Context()); a != nil {
		w.Header().Set("X-Actor", "7")
	}
	w.WriteHeader(http.StatusNoContent)
}

func TestAuth(t *testing.T) {
	m := NewMiddleware(fakeAuth{}, logger.Discard())
	h := m.Auth(http.HandlerFunc(actorEcho))

	cases := []struct {
		name    string
		method  string
		target  string
		header  string
		status  int
		isActor bool
	}{
		{name: "anonymous", method: http.MethodGet, target: "/", status: http.StatusNoContent},
		{name: "bearer", method: http.MethodPost, target: "/", header: "Bearer good", status: http.StatusNoContent, isActor: true},
		{name: "query token on GET", method: http.MethodGet, target: "/?token=good", status: http.StatusNoContent, isActor: true},
		{name: "query token ignored on POST", method: http.MethodPost, target: "/?token=good", status: http.StatusNoContent},
		{name: "bad token", method: http.MethodGet, target: "/", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "malformed header", method: http.MethodGet, target: "/", header: "Token good", status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.isActor, rec.Header().Get("X-Actor") == "7")
		})
	}
}

func TestRequireAuth(t *testing.T) {
	m := NewMiddleware(fakeAuth{}, logger.Discard())
	h := m.Auth(m.RequireAuth(actorEcho))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestID(t *testing.T) {
	m := NewMiddleware(fakeAuth{}, logger.Discard())
	var seen string
	h := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = wrap.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
}

func TestRateLimit(t *testing.T) {
	m := NewMiddleware(fakeAuth{}, logger.Discard())
	l := NewRateLimiter(1, 2, time.Minute)
	h := m.RateLimit(l, "test")(http.HandlerFunc(actorEcho))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code, "other clients have their own bucket")
}

func TestRateLimiter_Evict(t *testing.T) {
	l := NewRateLimiter(1, 1, time.Minute)
	now := time.Now()
	l.allow("a", now)
	l.allow("b", now.Add(2*time.Minute))

	l.evict(now.Add(2*time.Minute + time.Second))
	assert.NotContains(t, l.visitors, "a")
	assert.Contains(t, l.visitors, "b")
}

func TestRecover(t *testing.T) {
	m := NewMiddleware(fakeAuth{}, logger.Discard())
	h := m.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "close", rec.Header().Get("Connection"))
}

func TestStatusRecorderFlushes(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &statusRecorder{ResponseWriter: rec}

	require.NoError(t, http.NewResponseController(rw).Flush())
	assert.True(t, rec.Flushed)
	assert.Equal(t, http.StatusOK, rw.Status())
}

func TestMetricsLabelsRoutePattern(t *testing.T) {
	m := NewMiddleware(fakeAuth{}, logger.Discard())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	h := m.Metrics("metrics-test", mux)(m.Auth(mux))

	for _, path := range []string{"/items/1", "/items/2", "/nowhere"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(
		metrics.HttpRequestsTotal.WithLabelValues("metrics-test", http.MethodGet, "GET /items/{id}", "202")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		metrics.HttpRequestsTotal.WithLabelValues("metrics-test", http.MethodGet, "unmatched", "404")))
}
