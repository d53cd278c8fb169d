package handler

import (
	"net/http"

	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/validator"
)

// Register godoc
// @Summary      Offer help with a rescue, personally or on behalf of a team
// @Tags         Candidates
// @Accept       json
// @Produce      json
// @Param        id       path      int                           true   "rescue id"
// @Param        request  body      dto.RegisterCandidateRequest  false  "team offer"
// @Success      201      {object}  map[string]models.Candidate
// @Failure      401,403,404,409  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/rescue/{id}/candidates [post]
func (h *Rescue) Register(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "register_candidate")

	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithRescueID(ctx, id)

	// the body is optional for personal offers
	var req dto.RegisterCandidateRequest
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &req); err != nil {
			badRequestResponse(w, err.Error())
			return
		}
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	c, err := h.service.Register(ctx, id, models.ActorFromContext(ctx), req.TeamID)
	if err != nil {
		h.fail(ctx, w, "failed to register candidate", err)
		return
	}

	h.respond(ctx, w, http.StatusCreated, envelope{"candidate": c})
	h.l.Info(ctx, "candidate registered", "candidate_id", c.ID)
}

// Candidates godoc
// @Summary      Candidates of a rescue visible to the caller
// @Tags         Candidates
// @Produce      json
// @Param        id   path      int  true  "rescue id"
// @Success      200  {object}  map[string][]models.Candidate
// @Failure      401,404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/rescue/{id}/candidates [get]
func (h *Rescue) Candidates(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_candidates")

	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	list, err := h.service.ListCandidates(wrap.WithRescueID(ctx, id), id, models.ActorFromContext(ctx))
	if err != nil {
		h.fail(ctx, w, "failed to list candidates", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, envelope{"candidates": list})
}

// Reject godoc
// @Summary      Decline a pending candidate
// @Tags         Candidates
// @Produce      json
// @Param        id           path      int  true  "rescue id"
// @Param        candidateId  path      int  true  "candidate id"
// @Success      200          {object}  map[string]models.Candidate
// @Failure      401,403,404,409  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/rescue/{id}/candidates/{candidateId}/reject [post]
func (h *Rescue) Reject(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "reject_candidate")

	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	candidateID, err := readIDParam(r, "candidateId")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithRescueID(ctx, id)

	c, err := h.service.Reject(ctx, id, candidateID, models.ActorFromContext(ctx))
	if err != nil {
		h.fail(ctx, w, "failed to reject candidate", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, envelope{"candidate": c})
}

// Assign godoc
// @Summary      Accept one pending candidate and reject the rest
// @Tags         Candidates
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "rescue id"
// @Param        request  body      dto.AssignRequest  true  "accepted candidate"
// @Success      200      {object}  map[string]dto.RescueResponse
// @Failure      401,403,404,409,422  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/rescue/{id}/assign [post]
func (h *Rescue) Assign(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "assign_candidate")

	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithRescueID(ctx, id)

	var req dto.AssignRequest
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

	rescue, err := h.service.Assign(ctx, id, req.CandidateID, models.ActorFromContext(ctx))
	if err != nil {
		h.fail(ctx, w, "failed to assign candidate", err)
		return
	}

	h.respond(ctx, w, http.StatusOK, envelope{"rescue": dto.NewRescueResponse(rescue)})
}
