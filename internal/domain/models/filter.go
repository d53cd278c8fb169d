package models

import (
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

// RescueFilter selects rescues by viewport, exact metadata match and time range.
type RescueFilter struct {
	Bounds Bounds

	VehicleType       types.VehicleType
	Drivetrain        types.Drivetrain
	TerrainType       types.TerrainType
	ProblemType       types.ProblemType
	AssistanceStatus  types.AssistanceStatus
	AssistanceChannel types.AssistanceChannel
	Status            types.RescueStatus
	From              *time.Time

	Limit int
}

func (f RescueFilter) Validate() error {
	if err := f.Bounds.Validate(); err != nil {
		return err
	}
	m := Metadata{
		VehicleType:       f.VehicleType,
		Drivetrain:        f.Drivetrain,
		TerrainType:       f.TerrainType,
		ProblemType:       f.ProblemType,
		AssistanceStatus:  f.AssistanceStatus,
		AssistanceChannel: f.AssistanceChannel,
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if f.Status != "" && !f.Status.IsValid() {
		return types.NewValidationError("status", f.Status, "unknown status")
	}
	if f.Limit < 0 {
		return types.NewValidationError("limit", f.Limit, "must not be negative")
	}
	return nil
}

// Matches applies every criterion of the filter to r.
func (f RescueFilter) Matches(r *Rescue) bool {
	return f.Bounds.Contains(r.Latitude, r.Longitude) && f.MatchesMetadata(r) && f.matchesStatus(r)
}

// MatchesMetadata applies the metadata and time criteria, ignoring bounds and status.
func (f RescueFilter) MatchesMetadata(r *Rescue) bool {
	switch {
	case f.VehicleType != "" && f.VehicleType != r.VehicleType:
		return false
	case f.Drivetrain != "" && f.Drivetrain != r.Drivetrain:
		return false
	case f.TerrainType != "" && f.TerrainType != r.TerrainType:
		return false
	case f.ProblemType != "" && f.ProblemType != r.ProblemType:
		return false
	case f.AssistanceStatus != "" && f.AssistanceStatus != r.AssistanceStatus:
		return false
	case f.AssistanceChannel != "" && f.AssistanceChannel != r.AssistanceChannel:
		return false
	case f.From != nil && r.CreatedAt.Before(*f.From):
		return false
	}
	return true
}

// MatchesIncident applies the criteria that describe the incident itself. The assistance
// fields are left out: they change along with the status.
func (f RescueFilter) MatchesIncident(r *Rescue) bool {
	incident := f
	incident.AssistanceStatus, incident.AssistanceChannel = "", ""
	return incident.MatchesMetadata(r)
}

func (f RescueFilter) matchesStatus(r *Rescue) bool {
	return f.Status == "" || f.Status == r.Status
}
