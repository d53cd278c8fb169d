package models

import (
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

// Candidate is an offer to help with a rescue, from a user or from a team.
// CreatedBy is the user who registered the offer; for team offers it is a team member.
type Candidate struct {
	ID        int64                 `json:"id"`
	RescueID  int64                 `json:"rescueId"`
	UserID    *int64                `json:"userId"`
	TeamID    *int64                `json:"teamId"`
	CreatedBy int64                 `json:"createdBy"`
	Status    types.CandidateStatus `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

func (c *Candidate) IsPending() bool {
	return c.Status == types.CandidatePending
}

// IsTeam reports whether the offer was made on behalf of a team.
func (c *Candidate) IsTeam() bool {
	return c.TeamID != nil
}

// OwnedBy reports whether the actor made this offer or belongs to the offering team.
func (c *Candidate) OwnedBy(a *Actor) bool {
	if a == nil {
		return false
	}
	if c.UserID != nil && *c.UserID == a.UserID {
		return true
	}
	return c.TeamID != nil && a.MemberOf(*c.TeamID)
}
