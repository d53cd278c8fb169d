package cache

import (
	"context"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Directory is the team membership source being cached.
type Directory interface {
	Members(ctx context.Context, teamID int64) ([]int64, error)
	TeamsOf(ctx context.Context, userID int64) ([]int64, error)
}

// TeamDirectory caches membership lookups for ttl. Membership is owned by an external
// collaborator, so a change becomes visible here at most ttl later.
type TeamDirectory struct {
	next    Directory
	members *expirable.LRU[int64, []int64]
	teams   *expirable.LRU[int64, []int64]
}

func NewTeamDirectory(next Directory, size int, ttl time.Duration) *TeamDirectory {
	return &TeamDirectory{
		next:    next,
		members: expirable.NewLRU[int64, []int64](size, nil, ttl),
		teams:   expirable.NewLRU[int64, []int64](size, nil, ttl),
	}
}

func (d *TeamDirectory) Members(ctx context.Context, teamID int64) ([]int64, error) {
	return lookup(ctx, d.members, teamID, d.next.Members)
}

func (d *TeamDirectory) TeamsOf(ctx context.Context, userID int64) ([]int64, error) {
	return lookup(ctx, d.teams, userID, d.next.TeamsOf)
}

// Invalidate drops cached entries for a team and the given users.
func (d *TeamDirectory) Invalidate(teamID int64, userIDs ...int64) {
	d.members.Remove(teamID)
	for _, id := range userIDs {
		d.teams.Remove(id)
	}
}

func lookup(ctx context.Context, c *expirable.LRU[int64, []int64], key int64, load func(context.Context, int64) ([]int64, error)) ([]int64, error) {
	if ids, ok := c.Get(key); ok {
		return slices.Clone(ids), nil
	}
	ids, err := load(ctx, key)
	if err != nil {
		return nil, err
	}
	c.Add(key, slices.Clone(ids))
	return ids, nil
}
