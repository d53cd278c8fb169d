package dto

import (
	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/validator"
)

type CreateRescueRequest struct {
	Latitude           *float64 `json:"latitude" validate:"required,latitude"`
	Longitude          *float64 `json:"longitude" validate:"required,longitude"`
	Message            string   `json:"message" validate:"max=2000"`
	VehicleType        string   `json:"vehicleType" validate:"omitempty,oneof=car suv utv truck bus atv motorcycle van other"`
	Drivetrain         string   `json:"drivetrain" validate:"omitempty,oneof=two_wd four_wd awd"`
	TerrainType        string   `json:"terrainType" validate:"omitempty,oneof=asphalt sand mud rock snow water gravel other"`
	ProblemType        string   `json:"problemType" validate:"omitempty,oneof=stuck mechanical flat_tire battery fuel accident other"`
	AssistanceStatus   string   `json:"assistanceStatus" validate:"omitempty,oneof=none en_route on_site needs_more_help"`
	AssistanceChannel  string   `json:"assistanceChannel" validate:"omitempty,oneof=none community official commercial private"`
	AssistanceProvider string   `json:"assistanceProvider" validate:"max=255"`
}

func (r *CreateRescueRequest) Validate(v *validator.Validator) {
	v.Struct(r)
}

func (r *CreateRescueRequest) Metadata() models.Metadata {
	return models.Metadata{
		Message:            r.Message,
		VehicleType:        types.VehicleType(r.VehicleType),
		Drivetrain:         types.Drivetrain(r.Drivetrain),
		TerrainType:        types.TerrainType(r.TerrainType),
		ProblemType:        types.ProblemType(r.ProblemType),
		AssistanceStatus:   types.AssistanceStatus(r.AssistanceStatus),
		AssistanceChannel:  types.AssistanceChannel(r.AssistanceChannel),
		AssistanceProvider: r.AssistanceProvider,
	}
}

// UpdateRescueRequest either resolves the rescue, changes assistance metadata, or both.
type UpdateRescueRequest struct {
	Status             *string `json:"status" validate:"omitempty,oneof=resolved"`
	AssistanceStatus   *string `json:"assistanceStatus" validate:"omitempty,oneof=none en_route on_site needs_more_help resolved"`
	AssistanceChannel  *string `json:"assistanceChannel" validate:"omitempty,oneof=none community official commercial private"`
	AssistanceProvider *string `json:"assistanceProvider" validate:"omitempty,max=255"`
}

func (r *UpdateRescueRequest) Validate(v *validator.Validator) {
	v.Check(r.Status != nil || r.AssistanceStatus != nil || r.AssistanceChannel != nil || r.AssistanceProvider != nil,
		"body", "must contain at least one field")
	v.Struct(r)

	if r.Resolves() && r.AssistanceStatus != nil {
		v.Check(*r.AssistanceStatus == string(types.AssistanceResolved), "assistanceStatus", "must be resolved when status is resolved")
	}
}

// Resolves reports whether the request only closes the rescue.
func (r *UpdateRescueRequest) Resolves() bool {
	return r.Status != nil && *r.Status == string(types.StatusResolved)
}

// Update converts the assistance part. With status=resolved the assistance status is
// forced to resolved, which closes the rescue in the same step.
func (r *UpdateRescueRequest) Update() models.AssistanceUpdate {
	var u models.AssistanceUpdate
	if r.AssistanceStatus != nil {
		s := types.AssistanceStatus(*r.AssistanceStatus)
		u.Status = &s
	}
	if r.AssistanceChannel != nil {
		c := types.AssistanceChannel(*r.AssistanceChannel)
		u.Channel = &c
	}
	u.Provider = r.AssistanceProvider

	if r.Resolves() && !u.IsEmpty() {
		s := types.AssistanceResolved
		u.Status = &s
	}
	return u
}

type RegisterCandidateRequest struct {
	TeamID *int64 `json:"teamId" validate:"omitempty,gt=0"`
}

func (r *RegisterCandidateRequest) Validate(v *validator.Validator) {
	v.Struct(r)
}

type AssignRequest struct {
	CandidateID int64 `json:"candidateId" validate:"required,gt=0"`
}

func (r *AssignRequest) Validate(v *validator.Validator) {
	v.Struct(r)
}

type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

func (r *LocationRequest) Validate(v *validator.Validator) {
	v.Struct(r)
}

type MessageRequest struct {
	Content string `json:"content"`
}

// RescueResponse is a rescue together with its derived state.
type RescueResponse struct {
	*models.Rescue
	State types.RescueState `json:"state"`
}

func NewRescueResponse(r *models.Rescue) RescueResponse {
	return RescueResponse{Rescue: r, State: r.State()}
}

func NewRescueList(rs []*models.Rescue) []RescueResponse {
	out := make([]RescueResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewRescueResponse(r))
	}
	return out
}
