package wshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/internal/service/hub"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/metrics"
	"github.com/Temutjin2k/rescue-coordination/pkg/validator"
	ws "github.com/Temutjin2k/rescue-coordination/pkg/wsHub"
)

type StreamHub interface {
	Subscribe(ctx context.Context, filter models.RescueFilter, viewer *models.Actor) (*hub.Subscription, error)
}

// Viewport streams rescue frames over a websocket. Unlike the event-stream endpoint the
// client can move its viewport by sending {"type":"viewport", ...} without reconnecting.
type Viewport struct {
	hub       StreamHub
	conns     *ws.ConnectionHub
	upgrader  websocket.Upgrader
	pingEvery time.Duration
	l         logger.Logger
}

func NewViewport(h StreamHub, conns *ws.ConnectionHub, pingEvery time.Duration, l logger.Logger) *Viewport {
	if pingEvery <= 0 {
		pingEvery = 30 * time.Second
	}
	return &Viewport{
		hub:   h,
		conns: conns,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// browsers of any origin may watch the public map
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		pingEvery: pingEvery,
		l:         l,
	}
}

// Serve godoc
// @Summary      Live rescue events over a websocket
// @Description  Accepts the same filters as /api/rescue/all. Send {"type":"viewport","minLat":..} to move the viewport.
// @Tags         Stream
// @Param        token  query  string  false  "access token, for clients that can not set headers"
// @Success      101
// @Failure      422  {object}  map[string]string
// @Router       /ws/rescue [get]
func (h *Viewport) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_viewport")

	v := validator.New()
	f := dto.ParseFilter(r.URL.Query(), v)
	if !v.Valid() {
		writeError(w, http.StatusUnprocessableEntity, v.Errors)
		return
	}
	if err := f.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already answered the client
		h.l.Warn(ctx, "failed to upgrade connection", "error", err.Error())
		return
	}

	conn := ws.NewConn(ctx, uuid.New(), raw)
	if err := h.conns.Add(conn); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register connection", err)
		_ = conn.Close()
		return
	}
	metrics.WebSocketConnectionsGauge.WithLabelValues(metrics.ServiceName).Inc()
	defer func() {
		_ = h.conns.Delete(conn.ID())
		metrics.WebSocketConnectionsGauge.WithLabelValues(metrics.ServiceName).Dec()
	}()

	sub, err := h.hub.Subscribe(ctx, f, models.ActorFromContext(ctx))
	if err != nil {
		h.l.Warn(ctx, "failed to subscribe", "error", err.Error())
		_ = errorResponse(conn, err.Error())
		return
	}
	defer sub.Close()

	if err := conn.Send(dto.Control{Type: dto.ControlSubscribed}); err != nil {
		return
	}

	go h.listen(ctx, conn, sub)
	h.l.Debug(ctx, "viewport stream opened", "conn_id", conn.ID().String())

	ticker := time.NewTicker(h.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-conn.Done():
			return

		case <-sub.Done():
			if err := sub.Err(); err != nil && !errors.Is(err, types.ErrConnectionLost) {
				h.l.Warn(ctx, "stream closed by server", "error", err.Error())
				_ = errorResponse(conn, err.Error())
			}
			return

		case e := <-sub.Events():
			if err := conn.Send(dto.NewFrame(e)); err != nil {
				h.l.Debug(ctx, "failed to send frame", "error", err.Error())
				return
			}

		case <-ticker.C:
			if err := conn.Ping(); err != nil {
				return
			}
		}
	}
}

// listen applies viewport messages until the peer leaves, then closes the connection
// which ends Serve.
func (h *Viewport) listen(ctx context.Context, conn *ws.Conn, sub *hub.Subscription) {
	defer conn.Close()

	err := conn.Listen(func(msg json.RawMessage) error {
		var m dto.ViewportMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			return errorResponse(conn, "message must be a JSON object")
		}
		if m.Type != dto.ControlViewport {
			return errorResponse(conn, "unknown message type")
		}

		f := m.Filter()
		if err := f.Validate(); err != nil {
			return failedValidationResponse(conn, err)
		}

		sub.SetViewport(f)
		return conn.Send(dto.Control{Type: dto.ControlViewport})
	})
	if err != nil && !errors.Is(err, ws.ErrConnClosed) {
		h.l.Debug(ctx, "websocket listener stopped", "error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": message})
}
