package memory

import (
	"context"
	"slices"
)

// TeamDirectory answers team membership lookups from a static table.
type TeamDirectory struct {
	s *Store
}

func NewTeamDirectory(s *Store) *TeamDirectory {
	return &TeamDirectory{s: s}
}

// AddMember registers userID as a member of teamID.
func (d *TeamDirectory) AddMember(teamID, userID int64) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	if !slices.Contains(d.s.teams[teamID], userID) {
		d.s.teams[teamID] = append(d.s.teams[teamID], userID)
	}
}

func (d *TeamDirectory) Members(ctx context.Context, teamID int64) ([]int64, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	return slices.Clone(d.s.teams[teamID]), nil
}

func (d *TeamDirectory) TeamsOf(ctx context.Context, userID int64) ([]int64, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	var teams []int64
	for teamID, members := range d.s.teams {
		if slices.Contains(members, userID) {
			teams = append(teams, teamID)
		}
	}
	slices.Sort(teams)
	return teams, nil
}
