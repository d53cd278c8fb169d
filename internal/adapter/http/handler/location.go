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

//go:generate mockgen -source=location.go -destination=mocks/location.go -package=mocks

type RelayService interface {
	Report(ctx context.Context, rescueID int64, actor *models.Actor, lat, lng float64) (bool, error)
	DistanceTo(ctx context.Context, rescueID int64) (*float64, error)
}

type Location struct {
	service RelayService
	l       logger.Logger
}

func NewLocation(service RelayService, l logger.Logger) *Location {
	return &Location{
		service: service,
		l:       l,
	}
}

// Report godoc
// @Summary      Report the assigned rescuer position
// @Description  Reports inside the throttle window are accepted with "accepted": false and not stored.
// @Tags         Location
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "rescue id"
// @Param        request  body      dto.LocationRequest  true  "position"
// @Success      200      {object}  map[string]bool
// @Failure      401,403,404,409,422  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/rescue/{id}/location [post]
func (h *Location) Report(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "report_location")

	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithRescueID(ctx, id)

	var req dto.LocationRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	accepted, err := h.service.Report(ctx, id, models.ActorFromContext(ctx), *req.Latitude, *req.Longitude)
	if err != nil {
		logFailure(ctx, h.l, "failed to report location", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"accepted": accepted}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
	}
}

// Distance godoc
// @Summary      Distance between the rescuer and the rescue
// @Description  distanceKm is null until a rescuer position was reported.
// @Tags         Location
// @Produce      json
// @Param        id   path      int  true  "rescue id"
// @Success      200  {object}  map[string]number
// @Failure      404  {object}  map[string]string
// @Router       /api/rescue/{id}/distance [get]
func (h *Location) Distance(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "rescuer_distance")

	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	km, err := h.service.DistanceTo(wrap.WithRescueID(ctx, id), id)
	if err != nil {
		logFailure(ctx, h.l, "failed to compute distance", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"distanceKm": km}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
	}
}
