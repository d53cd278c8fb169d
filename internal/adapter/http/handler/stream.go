package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/internal/service/hub"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/validator"
)

type StreamHub interface {
	Subscribe(ctx context.Context, filter models.RescueFilter, viewer *models.Actor) (*hub.Subscription, error)
	SubscribeUser(ctx context.Context, userID int64) (*hub.UserSubscription, error)
}

// Stream serves server-sent event streams. Each stream opens with a retry hint, sends one
// data frame per event and a comment line at the keep-alive interval.
type Stream struct {
	hub       StreamHub
	keepAlive time.Duration
	retry     time.Duration
	l         logger.Logger
}

func NewStream(h StreamHub, keepAlive, retry time.Duration, l logger.Logger) *Stream {
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}
	if retry <= 0 {
		retry = 3 * time.Second
	}
	return &Stream{
		hub:       h,
		keepAlive: keepAlive,
		retry:     retry,
		l:         l,
	}
}

// Rescues godoc
// @Summary      Live rescue events inside a viewport (text/event-stream)
// @Description  Accepts the same filters as /api/rescue/all. Message events reach only parties of the rescue.
// @Tags         Stream
// @Produce      text/event-stream
// @Param        token  query  string  false  "access token, for clients that can not set headers"
// @Success      200
// @Failure      422  {object}  map[string]string
// @Router       /api/rescue/stream [get]
func (h *Stream) Rescues(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "stream_rescues")

	v := validator.New()
	f := dto.ParseFilter(r.URL.Query(), v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}
	if err := f.Validate(); err != nil {
		serviceErrorResponse(w, err)
		return
	}

	sub, err := h.hub.Subscribe(ctx, f, models.ActorFromContext(ctx))
	if err != nil {
		logFailure(ctx, h.l, "failed to subscribe", err)
		serviceErrorResponse(w, err)
		return
	}
	defer sub.Close()

	serve(ctx, h, w, sub.Done(), sub.Err, sub.Events(), func(e models.RescueEvent) any {
		return dto.NewFrame(e)
	})
}

// Notifications godoc
// @Summary      Live notifications of the caller (text/event-stream)
// @Tags         Stream
// @Produce      text/event-stream
// @Param        token  query  string  false  "access token, for clients that can not set headers"
// @Success      200
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/notifications/stream [get]
func (h *Stream) Notifications(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "stream_notifications")

	actor := models.ActorFromContext(ctx)
	if actor == nil {
		serviceErrorResponse(w, types.ErrUnauthorized)
		return
	}

	sub, err := h.hub.SubscribeUser(ctx, actor.UserID)
	if err != nil {
		logFailure(ctx, h.l, "failed to subscribe", err)
		serviceErrorResponse(w, err)
		return
	}
	defer sub.Close()

	serve(ctx, h, w, sub.Done(), sub.Err, sub.Notifications(), func(n models.Notification) any {
		return n
	})
}

// serve writes frames from events until the client leaves or the subscription ends.
func serve[T any](ctx context.Context, h *Stream, w http.ResponseWriter, done <-chan struct{}, subErr func() error, events <-chan T, encode func(T) any) {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprintf(w, "retry: %d\n\n", h.retry.Milliseconds()); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "streaming is not supported by the response writer", err)
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-done:
			if err := subErr(); err != nil && !errors.Is(err, types.ErrConnectionLost) {
				h.l.Warn(ctx, "stream closed by server", "error", err.Error())
			}
			return

		case v := <-events:
			if err := writeFrame(w, encode(v)); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeFrame(w http.ResponseWriter, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", b)
	return err
}
