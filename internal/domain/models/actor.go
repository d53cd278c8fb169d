package models

import (
	"context"
	"slices"
)

// Actor is an authenticated caller together with its team memberships.
type Actor struct {
	UserID  int64   `json:"userId"`
	TeamIDs []int64 `json:"teamIds,omitempty"`
}

func (a *Actor) MemberOf(teamID int64) bool {
	return a != nil && slices.Contains(a.TeamIDs, teamID)
}

type actorCtxKey struct{}

// WithActor stores the authenticated actor in the context.
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, a)
}

// ActorFromContext returns the authenticated actor or nil for anonymous requests.
func ActorFromContext(ctx context.Context) *Actor {
	a, _ := ctx.Value(actorCtxKey{}).(*Actor)
	return a
}

// Audience is the set of parties that may receive party-scoped events.
type Audience struct {
	UserIDs []int64 `json:"userIds"`
	TeamID  *int64  `json:"teamId,omitempty"`
}

func (au Audience) Includes(a *Actor) bool {
	if a == nil {
		return false
	}
	if slices.Contains(au.UserIDs, a.UserID) {
		return true
	}
	return au.TeamID != nil && a.MemberOf(*au.TeamID)
}
