package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/geoindex"
)

type RescueRepo struct {
	s *Store
}

func NewRescueRepo(s *Store) *RescueRepo {
	return &RescueRepo{s: s}
}

func (r *RescueRepo) Create(ctx context.Context, rescue *models.Rescue) (*models.Rescue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.rescueSeq++
	stored := cloneRescue(rescue)
	stored.ID = r.s.rescueSeq
	stored.Version = 1
	if stored.Status == "" {
		stored.Status = types.StatusPending
	}

	r.s.rescues[stored.ID] = stored
	r.s.geo.Insert(stored.ID, stored.Latitude, stored.Longitude)

	id := stored.ID
	record(ctx, func() {
		delete(r.s.rescues, id)
		r.s.geo.Remove(id)
	})

	return cloneRescue(stored), nil
}

func (r *RescueRepo) Get(ctx context.Context, id int64) (*models.Rescue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rescue, ok := r.s.rescues[id]
	if !ok {
		return nil, types.ErrRescueNotFound
	}
	return cloneRescue(rescue), nil
}

// GetForUpdate is Get: writers of one rescue are already serialized by the caller.
func (r *RescueRepo) GetForUpdate(ctx context.Context, id int64) (*models.Rescue, error) {
	return r.Get(ctx, id)
}

// List returns rescues matching the filter, newest first, capped at the filter limit.
func (r *RescueRepo) List(ctx context.Context, f models.RescueFilter) ([]*models.Rescue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := r.s.geo.Query(geoindex.Box{
		MinLat: f.Bounds.MinLat,
		MaxLat: f.Bounds.MaxLat,
		MinLng: f.Bounds.MinLng,
		MaxLng: f.Bounds.MaxLng,
	})

	out := make([]*models.Rescue, 0, len(ids))
	for _, id := range ids {
		rescue, ok := r.s.rescues[id]
		if !ok || !f.Matches(rescue) {
			continue
		}
		out = append(out, cloneRescue(rescue))
	}

	sortNewestFirst(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ListByActor returns rescues requested by the user or assigned to the user or one of the teams.
func (r *RescueRepo) ListByActor(ctx context.Context, userID int64, teamIDs []int64, limit int) ([]*models.Rescue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.Rescue
	for _, rescue := range r.s.rescues {
		mine := rescue.UserID == userID ||
			(rescue.AssignedRescuerID != nil && *rescue.AssignedRescuerID == userID) ||
			(rescue.AssignedTeamID != nil && slices.Contains(teamIDs, *rescue.AssignedTeamID))
		if mine {
			out = append(out, cloneRescue(rescue))
		}
	}

	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RescueRepo) Resolve(ctx context.Context, id int64, at time.Time) (*models.Rescue, error) {
	return r.mutate(ctx, id, at, func(rescue *models.Rescue) error {
		if rescue.IsResolved() {
			return types.ErrAlreadyResolved
		}
		rescue.Status = types.StatusResolved
		rescue.AssistanceStatus = types.AssistanceResolved
		return nil
	})
}

// SetAssignment binds the rescue to exactly one of rescuerID or teamID.
func (r *RescueRepo) SetAssignment(ctx context.Context, id int64, rescuerID, teamID *int64, at time.Time) (*models.Rescue, error) {
	if (rescuerID == nil) == (teamID == nil) {
		return nil, fmt.Errorf("%w: exactly one of rescuer or team must be assigned", types.ErrInvalidState)
	}
	return r.mutate(ctx, id, at, func(rescue *models.Rescue) error {
		if rescue.IsAssigned() {
			return types.ErrAlreadyAssigned
		}
		rescue.AssignedRescuerID = clonePtr(rescuerID)
		rescue.AssignedTeamID = clonePtr(teamID)
		return nil
	})
}

func (r *RescueRepo) UpdateAssistance(ctx context.Context, id int64, u models.AssistanceUpdate, at time.Time) (*models.Rescue, error) {
	return r.mutate(ctx, id, at, func(rescue *models.Rescue) error {
		if u.Status != nil {
			rescue.AssistanceStatus = *u.Status
		}
		if u.Channel != nil {
			rescue.AssistanceChannel = *u.Channel
		}
		if u.Provider != nil {
			rescue.AssistanceProvider = *u.Provider
		}
		return nil
	})
}

// UpdateRescuerLocation overwrites the rescuer position unless a newer one is stored.
func (r *RescueRepo) UpdateRescuerLocation(ctx context.Context, id int64, lat, lng float64, at time.Time) (*models.Rescue, error) {
	return r.mutate(ctx, id, at, func(rescue *models.Rescue) error {
		if rescue.RescuerUpdatedAt != nil && rescue.RescuerUpdatedAt.After(at) {
			return types.ErrStaleLocation
		}
		rescue.RescuerLatitude = &lat
		rescue.RescuerLongitude = &lng
		rescue.RescuerUpdatedAt = &at
		return nil
	})
}

// Touch advances the version of a rescue whose children changed.
func (r *RescueRepo) Touch(ctx context.Context, id int64, at time.Time) (*models.Rescue, error) {
	return r.mutate(ctx, id, at, func(*models.Rescue) error { return nil })
}

func (r *RescueRepo) CountByState(ctx context.Context) (map[types.RescueState]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[types.RescueState]int, 3)
	for _, rescue := range r.s.rescues {
		counts[rescue.State()]++
	}
	return counts, nil
}

func (r *RescueRepo) mutate(ctx context.Context, id int64, at time.Time, fn func(*models.Rescue) error) (*models.Rescue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.rescues[id]
	if !ok {
		return nil, types.ErrRescueNotFound
	}

	next := cloneRescue(current)
	if err := fn(next); err != nil {
		return nil, err
	}
	next.Version++
	next.UpdatedAt = at

	r.s.rescues[id] = next
	record(ctx, func() { r.s.rescues[id] = current })

	return cloneRescue(next), nil
}

func sortNewestFirst(rescues []*models.Rescue) {
	slices.SortFunc(rescues, func(a, b *models.Rescue) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
