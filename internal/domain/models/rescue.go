package models

import (
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

// Rescue is one reported incident needing assistance.
type Rescue struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"userId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Message   string  `json:"message,omitempty"`

	Status             types.RescueStatus      `json:"status"`
	VehicleType        types.VehicleType       `json:"vehicleType,omitempty"`
	Drivetrain         types.Drivetrain        `json:"drivetrain,omitempty"`
	TerrainType        types.TerrainType       `json:"terrainType,omitempty"`
	ProblemType        types.ProblemType       `json:"problemType,omitempty"`
	AssistanceStatus   types.AssistanceStatus  `json:"assistanceStatus,omitempty"`
	AssistanceChannel  types.AssistanceChannel `json:"assistanceChannel,omitempty"`
	AssistanceProvider string                  `json:"assistanceProvider,omitempty"`

	AssignedRescuerID *int64 `json:"assignedRescuerId"`
	AssignedTeamID    *int64 `json:"assignedTeamId"`

	RescuerLatitude  *float64   `json:"rescuerLatitude"`
	RescuerLongitude *float64   `json:"rescuerLongitude"`
	RescuerUpdatedAt *time.Time `json:"rescuerUpdatedAt"`

	// Version grows by one on every mutation and is used as the stream sequence number.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Rescue) IsAssigned() bool {
	return r.AssignedRescuerID != nil || r.AssignedTeamID != nil
}

func (r *Rescue) IsResolved() bool {
	return r.Status == types.StatusResolved
}

// State derives open/assigned/resolved from status and assignment fields.
func (r *Rescue) State() types.RescueState {
	switch {
	case r.IsResolved():
		return types.StateResolved
	case r.IsAssigned():
		return types.StateAssigned
	default:
		return types.StateOpen
	}
}

func (r *Rescue) IsRequester(a *Actor) bool {
	return a != nil && a.UserID == r.UserID
}

// IsAssignee reports whether the actor is the assigned rescuer or a member of the assigned team.
func (r *Rescue) IsAssignee(a *Actor) bool {
	if a == nil {
		return false
	}
	if r.AssignedRescuerID != nil && *r.AssignedRescuerID == a.UserID {
		return true
	}
	return r.AssignedTeamID != nil && a.MemberOf(*r.AssignedTeamID)
}

// IsParty reports whether the actor has a stake in an assigned rescue.
func (r *Rescue) IsParty(a *Actor) bool {
	return r.IsRequester(a) || r.IsAssignee(a)
}

// Audience lists who may see party-scoped events of this rescue.
func (r *Rescue) Audience() Audience {
	au := Audience{UserIDs: []int64{r.UserID}, TeamID: r.AssignedTeamID}
	if r.AssignedRescuerID != nil {
		au.UserIDs = append(au.UserIDs, *r.AssignedRescuerID)
	}
	return au
}

// HasRescuerPosition reports whether a rescuer position was ever recorded.
func (r *Rescue) HasRescuerPosition() bool {
	return r.RescuerLatitude != nil && r.RescuerLongitude != nil
}

// Metadata describes the incident and the help it gets. All fields are optional.
type Metadata struct {
	Message            string
	VehicleType        types.VehicleType
	Drivetrain         types.Drivetrain
	TerrainType        types.TerrainType
	ProblemType        types.ProblemType
	AssistanceStatus   types.AssistanceStatus
	AssistanceChannel  types.AssistanceChannel
	AssistanceProvider string
}

// Validate rejects metadata values outside of their enumerations.
func (m Metadata) Validate() error {
	switch {
	case m.VehicleType != "" && !m.VehicleType.IsValid():
		return types.NewValidationError("vehicleType", m.VehicleType, "unknown vehicle type")
	case m.Drivetrain != "" && !m.Drivetrain.IsValid():
		return types.NewValidationError("drivetrain", m.Drivetrain, "unknown drivetrain")
	case m.TerrainType != "" && !m.TerrainType.IsValid():
		return types.NewValidationError("terrainType", m.TerrainType, "unknown terrain type")
	case m.ProblemType != "" && !m.ProblemType.IsValid():
		return types.NewValidationError("problemType", m.ProblemType, "unknown problem type")
	case m.AssistanceStatus != "" && !m.AssistanceStatus.IsValid():
		return types.NewValidationError("assistanceStatus", m.AssistanceStatus, "unknown assistance status")
	case m.AssistanceChannel != "" && !m.AssistanceChannel.IsValid():
		return types.NewValidationError("assistanceChannel", m.AssistanceChannel, "unknown assistance channel")
	case len(m.AssistanceProvider) > 255:
		return types.NewValidationError("assistanceProvider", len(m.AssistanceProvider), "must not be more than 255 characters long")
	case len(m.Message) > 2000:
		return types.NewValidationError("message", len(m.Message), "must not be more than 2000 characters long")
	}
	return nil
}

// AssistanceUpdate is a partial change of assistance metadata.
type AssistanceUpdate struct {
	Status   *types.AssistanceStatus
	Channel  *types.AssistanceChannel
	Provider *string
}

func (u AssistanceUpdate) IsEmpty() bool {
	return u.Status == nil && u.Channel == nil && u.Provider == nil
}

func (u AssistanceUpdate) Validate() error {
	if u.IsEmpty() {
		return types.NewValidationError("body", nil, "nothing to update")
	}
	m := Metadata{}
	if u.Status != nil {
		if *u.Status == "" {
			return types.NewValidationError("assistanceStatus", "", "must not be empty")
		}
		m.AssistanceStatus = *u.Status
	}
	if u.Channel != nil {
		if *u.Channel == "" {
			return types.NewValidationError("assistanceChannel", "", "must not be empty")
		}
		m.AssistanceChannel = *u.Channel
	}
	if u.Provider != nil {
		m.AssistanceProvider = *u.Provider
	}
	return m.Validate()
}
