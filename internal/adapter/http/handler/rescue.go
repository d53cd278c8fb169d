package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/validator"
)

//go:generate mockgen -source=rescue.go -destination=mocks/rescue.go -package=mocks

type RescueService interface {
	Create(ctx context.Context, actor *models.Actor, lat, lng float64, meta models.Metadata) (*models.Rescue, error)
	Get(ctx context.Context, id int64) (*models.Rescue, error)
	Query(ctx context.Context, f models.RescueFilter) ([]*models.Rescue, error)
	ListMine(ctx context.Context, actor *models.Actor, limit int) ([]*models.Rescue, error)
	Hotspot(ctx context.Context, f models.RescueFilter) (models.Hotspot, bool, error)
	Resolve(ctx context.Context, id int64, actor *models.Actor) (*models.Rescue, error)
	UpdateAssistance(ctx context.Context, id int64, actor *models.Actor, u models.AssistanceUpdate) (*models.Rescue, error)

	Register(ctx context.Context, rescueID int64, actor *models.Actor, teamID *int64) (*models.Candidate, error)
	ListCandidates(ctx context.Context, rescueID int64, actor *models.Actor) ([]*models.Candidate, error)
	Reject(ctx context.Context, rescueID, candidateID int64, actor *models.Actor) (*models.Candidate, error)
	Assign(ctx context.Context, rescueID, candidateID int64, actor *models.Actor) (*models.Rescue, error)
}

type Rescue struct {
	service RescueService
	l       logger.Logger
}

func NewRescue(service RescueService, l logger.Logger) *Rescue {
	return &Rescue{
		service: service,
		l:       l,
	}
}

// Create godoc
// @Summary      Report a rescue
// @Tags         Rescue
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CreateRescueRequest  true  "location and metadata"
// @Success      201      {object}  dto.RescueResponse
// @Failure      401,422  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/rescue [post]
func (h *Rescue) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_rescue")

	var req dto.CreateRescueRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, v.Errors)
		return
	}

	rescue, err := h.service.Create(ctx, models.ActorFromContext(ctx), *req.Latitude, *req.Longitude, req.Metadata())
	if err != nil {
		h.fail(ctx, w, "failed to create rescue", err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"rescue": dto.NewRescueResponse(rescue)}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		return
	}

	h.l.Info(wrap.WithRescueID(ctx, rescue.ID), "rescue created")
}

// List godoc
// @Summary      Rescues inside a viewport
// @Tags         Rescue
// @Produce      json
// @Param        minLat  query  number  false  "south edge"
// @Param        maxLat  query  number  false  "north edge"
// @Param        minLng  query  number  false  "west edge, greater than maxLng across the antimeridian"
// @Param        maxLng  query  number  false  "east edge"
// @Param        status  query  string  false  "pending or resolved"
// @Param        from    query  string  false  "created at or after, RFC 3339 or unix ms"
// @Param        limit   query  int     false  "default 500, max 1000"
// @Success      200     {object}  map[string][]dto.RescueResponse
// @Failure      422     {object}  map[string]string
// @Router       /api/rescue/all [get]
func (h *Rescue) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_rescues")

	v := validator.New()
	f := dto.ParseFilter(r.URL.Query(), v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	rescues, err := h.service.Query(ctx, f)
	if err != nil {
		h.fail(ctx, w, "failed to query rescues", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, envelope{"rescues": dto.NewRescueList(rescues)})
}

// Mine godoc
// @Summary      Rescues the caller requested or is assigned to
// @Tags         Rescue
// @Produce      json
// @Param        limit  query  int  false  "default 500, max 1000"
// @Success      200    {object}  map[string][]dto.RescueResponse
// @Failure      401    {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/rescue/my [get]
func (h *Rescue) Mine(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_my_rescues")

	v := validator.New()
	limit := dto.ParseLimit(r.URL.Query(), v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	rescues, err := h.service.ListMine(ctx, models.ActorFromContext(ctx), limit)
	if err != nil {
		h.fail(ctx, w, "failed to list rescues of actor", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, envelope{"rescues": dto.NewRescueList(rescues)})
}

// Hotspot godoc
// @Summary      Densest cluster of rescues inside a viewport
// @Tags         Rescue
// @Produce      json
// @Success      200  {object}  map[string]models.Hotspot
// @Failure      422  {object}  map[string]string
// @Router       /api/rescue/hotspot [get]
func (h *Rescue) Hotspot(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "rescue_hotspot")

	v := validator.New()
	f := dto.ParseFilter(r.URL.Query(), v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	spot, ok, err := h.service.Hotspot(ctx, f)
	if err != nil {
		h.fail(ctx, w, "failed to compute hotspot", err)
		return
	}

	resp := envelope{"hotspot": nil}
	if ok {
		resp["hotspot"] = spot
	}
	h.respond(ctx, w, http.StatusOK, resp)
}

// Get godoc
// @Summary      One rescue
// @Tags         Rescue
// @Produce      json
// @Param        id   path      int  true  "rescue id"
// @Success      200  {object}  map[string]dto.RescueResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/rescue/{id} [get]
func (h *Rescue) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_rescue")

	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	rescue, err := h.service.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, "failed to get rescue", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, envelope{"rescue": dto.NewRescueResponse(rescue)})
}

// Update godoc
// @Summary      Resolve a rescue or change its assistance metadata
// @Tags         Rescue
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true  "rescue id"
// @Param        request  body      dto.UpdateRescueRequest  true  "changes"
// @Success      200      {object}  map[string]dto.RescueResponse
// @Failure      401,403,404,409,422  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/rescue/{id} [patch]
func (h *Rescue) Update(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_rescue")

	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithRescueID(ctx, id)

	var req dto.UpdateRescueRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	actor := models.ActorFromContext(ctx)

	var rescue *models.Rescue
	if u := req.Update(); u.IsEmpty() {
		rescue, err = h.service.Resolve(ctx, id, actor)
	} else {
		rescue, err = h.service.UpdateAssistance(ctx, id, actor, u)
	}
	if err != nil {
		h.fail(ctx, w, "failed to update rescue", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, envelope{"rescue": dto.NewRescueResponse(rescue)})
}

// fail logs expected client errors as warnings and everything else as errors.
func (h *Rescue) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	logFailure(ctx, h.l, msg, err)
	serviceErrorResponse(w, err)
}

func (h *Rescue) respond(ctx context.Context, w http.ResponseWriter, status int, data envelope) {
	if err := writeJSON(w, status, data, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
	}
}

func logFailure(ctx context.Context, l logger.Logger, msg string, err error) {
	if GetCode(err) >= http.StatusInternalServerError {
		l.Error(wrap.ErrorCtx(ctx, err), msg, err)
		return
	}
	l.Warn(wrap.ErrorCtx(ctx, err), msg, "error", err.Error())
}
