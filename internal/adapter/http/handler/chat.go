package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

//go:generate mockgen -source=chat.go -destination=mocks/chat.go -package=mocks

type ChatService interface {
	Post(ctx context.Context, rescueID int64, actor *models.Actor, content string) (*models.ChatMessage, error)
	List(ctx context.Context, rescueID int64, actor *models.Actor) ([]*models.ChatMessage, error)
}

type Chat struct {
	service ChatService
	l       logger.Logger
}

func NewChat(service ChatService, l logger.Logger) *Chat {
	return &Chat{
		service: service,
		l:       l,
	}
}

// Post godoc
// @Summary      Send a message to the other parties of an assigned rescue
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "rescue id"
// @Param        request  body      dto.MessageRequest  true  "message"
// @Success      201      {object}  map[string]models.ChatMessage
// @Failure      401,403,404,409,422  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/rescue/{id}/messages [post]
func (h *Chat) Post(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "post_message")

	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithRescueID(ctx, id)

	var req dto.MessageRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	// content rules live in the chat service
	msg, err := h.service.Post(ctx, id, models.ActorFromContext(ctx), req.Content)
	if err != nil {
		logFailure(ctx, h.l, "failed to post message", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"message": msg}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
	}
}

// List godoc
// @Summary      Conversation of a rescue, oldest first
// @Tags         Chat
// @Produce      json
// @Param        id   path      int  true  "rescue id"
// @Success      200  {object}  map[string][]models.ChatMessage
// @Failure      401,403,404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/rescue/{id}/messages [get]
func (h *Chat) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_messages")

	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithRescueID(ctx, id)

	msgs, err := h.service.List(ctx, id, models.ActorFromContext(ctx))
	if err != nil {
		logFailure(ctx, h.l, "failed to list messages", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"messages": msgs}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
	}
}
