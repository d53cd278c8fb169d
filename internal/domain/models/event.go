package models

import (
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

// RescueEvent is one mutation of a rescue as delivered to stream subscribers.
type RescueEvent struct {
	Kind     types.EventKind `json:"kind"`
	RescueID int64           `json:"rescueId"`
	Seq      int64           `json:"seq"`
	Payload  RescuePatch     `json:"payload"`

	// Snapshot is the full record after the mutation, used for viewport matching.
	Snapshot *Rescue `json:"snapshot,omitempty"`
	// Audience restricts delivery to parties. Nil means viewport delivery.
	Audience *Audience `json:"audience,omitempty"`
}

// RescuePatch is a merge patch keyed by rescue id. Nil fields are left untouched.
type RescuePatch struct {
	ID int64 `json:"id"`

	UserID             *int64                   `json:"userId,omitempty"`
	Latitude           *float64                 `json:"latitude,omitempty"`
	Longitude          *float64                 `json:"longitude,omitempty"`
	Message            *string                  `json:"message,omitempty"`
	Status             *types.RescueStatus      `json:"status,omitempty"`
	State              *types.RescueState       `json:"state,omitempty"`
	VehicleType        *types.VehicleType       `json:"vehicleType,omitempty"`
	Drivetrain         *types.Drivetrain        `json:"drivetrain,omitempty"`
	TerrainType        *types.TerrainType       `json:"terrainType,omitempty"`
	ProblemType        *types.ProblemType       `json:"problemType,omitempty"`
	AssistanceStatus   *types.AssistanceStatus  `json:"assistanceStatus,omitempty"`
	AssistanceChannel  *types.AssistanceChannel `json:"assistanceChannel,omitempty"`
	AssistanceProvider *string                  `json:"assistanceProvider,omitempty"`
	AssignedRescuerID  *int64                   `json:"assignedRescuerId,omitempty"`
	AssignedTeamID     *int64                   `json:"assignedTeamId,omitempty"`
	RescuerLatitude    *float64                 `json:"rescuerLatitude,omitempty"`
	RescuerLongitude   *float64                 `json:"rescuerLongitude,omitempty"`
	RescuerUpdatedAt   *time.Time               `json:"rescuerUpdatedAt,omitempty"`
	CreatedAt          *time.Time               `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time               `json:"updatedAt,omitempty"`

	Candidate   *Candidate   `json:"candidate,omitempty"`
	ChatMessage *ChatMessage `json:"chatMessage,omitempty"`
}

// FullPatch renders the whole record as a patch, used for created events.
func FullPatch(r *Rescue) RescuePatch {
	p := RescuePatch{
		ID:                r.ID,
		UserID:            &r.UserID,
		Latitude:          &r.Latitude,
		Longitude:         &r.Longitude,
		Status:            &r.Status,
		AssignedRescuerID: r.AssignedRescuerID,
		AssignedTeamID:    r.AssignedTeamID,
		RescuerLatitude:   r.RescuerLatitude,
		RescuerLongitude:  r.RescuerLongitude,
		RescuerUpdatedAt:  r.RescuerUpdatedAt,
		CreatedAt:         &r.CreatedAt,
		UpdatedAt:         &r.UpdatedAt,
	}
	state := r.State()
	p.State = &state
	if r.Message != "" {
		p.Message = &r.Message
	}
	if r.VehicleType != "" {
		p.VehicleType = &r.VehicleType
	}
	if r.Drivetrain != "" {
		p.Drivetrain = &r.Drivetrain
	}
	if r.TerrainType != "" {
		p.TerrainType = &r.TerrainType
	}
	if r.ProblemType != "" {
		p.ProblemType = &r.ProblemType
	}
	if r.AssistanceStatus != "" {
		p.AssistanceStatus = &r.AssistanceStatus
	}
	if r.AssistanceChannel != "" {
		p.AssistanceChannel = &r.AssistanceChannel
	}
	if r.AssistanceProvider != "" {
		p.AssistanceProvider = &r.AssistanceProvider
	}
	return p
}

// NewRescueEvent builds an event for r with r.Version as its sequence number.
func NewRescueEvent(kind types.EventKind, r *Rescue, patch RescuePatch) RescueEvent {
	patch.ID = r.ID
	if patch.UpdatedAt == nil {
		patch.UpdatedAt = &r.UpdatedAt
	}
	return RescueEvent{
		Kind:     kind,
		RescueID: r.ID,
		Seq:      r.Version,
		Payload:  patch,
		Snapshot: r,
	}
}

// ForParties restricts the event to the parties of the rescue.
func (e RescueEvent) ForParties(au Audience) RescueEvent {
	e.Audience = &au
	return e
}
