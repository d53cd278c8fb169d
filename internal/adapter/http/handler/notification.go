package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/validator"
)

//go:generate mockgen -source=notification.go -destination=mocks/notification.go -package=mocks

type NotificationService interface {
	List(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) (*models.Notification, error)
}

type Notification struct {
	service NotificationService
	l       logger.Logger
}

func NewNotification(service NotificationService, l logger.Logger) *Notification {
	return &Notification{
		service: service,
		l:       l,
	}
}

// List godoc
// @Summary      Notifications of the caller, newest first
// @Tags         Notifications
// @Produce      json
// @Param        unread  query     bool  false  "only unread"
// @Param        limit   query     int   false  "default 50, max 200"
// @Success      200     {object}  map[string][]models.Notification
// @Failure      401     {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/notifications [get]
func (h *Notification) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_notifications")

	actor := models.ActorFromContext(ctx)
	if actor == nil {
		serviceErrorResponse(w, types.ErrUnauthorized)
		return
	}

	q := r.URL.Query()
	v := validator.New()
	limit := dto.ParseLimit(q, v)
	unread := q.Get("unread")
	v.Check(unread == "" || unread == "true" || unread == "false", "unread", "must be true or false")
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	list, err := h.service.List(ctx, actor.UserID, unread == "true", limit)
	if err != nil {
		logFailure(ctx, h.l, "failed to list notifications", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"notifications": list}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
	}
}

// MarkRead godoc
// @Summary      Mark one notification as read
// @Tags         Notifications
// @Produce      json
// @Param        id   path      int  true  "notification id"
// @Success      200  {object}  map[string]models.Notification
// @Failure      401,404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/notifications/{id}/read [post]
func (h *Notification) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "mark_notification_read")

	actor := models.ActorFromContext(ctx)
	if actor == nil {
		serviceErrorResponse(w, types.ErrUnauthorized)
		return
	}

	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	n, err := h.service.MarkRead(ctx, id, actor.UserID)
	if err != nil {
		logFailure(ctx, h.l, "failed to mark notification read", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"notification": n}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
	}
}
