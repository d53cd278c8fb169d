package auth

import "context"

// TeamDirectory is the external team membership lookup.
type TeamDirectory interface {
	TeamsOf(ctx context.Context, userID int64) ([]int64, error)
}
