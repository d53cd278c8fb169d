package rescue

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/geoindex"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

// Create validates and stores a new pending rescue, then announces it to viewers.
func (s *Service) Create(ctx context.Context, actor *models.Actor, lat, lng float64, meta models.Metadata) (*models.Rescue, error) {
	ctx = wrap.WithAction(ctx, "create_rescue")
	if err := requireActor(ctx, actor); err != nil {
		return nil, err
	}

	if err := models.ValidateCoordinates(lat, lng); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if err := meta.Validate(); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if meta.AssistanceStatus == types.AssistanceResolved {
		return nil, wrap.Error(ctx, types.NewValidationError("assistanceStatus", meta.AssistanceStatus, "a new rescue cannot be resolved"))
	}

	now := s.now()
	created, err := s.repos.rescue.Create(ctx, &models.Rescue{
		UserID:             actor.UserID,
		Latitude:           lat,
		Longitude:          lng,
		Message:            meta.Message,
		Status:             types.StatusPending,
		VehicleType:        meta.VehicleType,
		Drivetrain:         meta.Drivetrain,
		TerrainType:        meta.TerrainType,
		ProblemType:        meta.ProblemType,
		AssistanceStatus:   meta.AssistanceStatus,
		AssistanceChannel:  meta.AssistanceChannel,
		AssistanceProvider: meta.AssistanceProvider,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to create rescue: %w", err))
	}

	ctx = wrap.WithRescueID(ctx, created.ID)
	s.publish(ctx, models.NewRescueEvent(types.EventCreated, created, models.FullPatch(created)))

	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Rescue, error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "get_rescue"), id)

	r, err := s.repos.rescue.Get(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return r, nil
}

// Query returns rescues inside the bounds that match the filters, newest first.
// The limit falls back to the default and is capped at the configured maximum.
func (s *Service) Query(ctx context.Context, f models.RescueFilter) ([]*models.Rescue, error) {
	ctx = wrap.WithAction(ctx, "query_rescues")

	if err := f.Validate(); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	f.Limit = s.limit(f.Limit)

	rescues, err := s.repos.rescue.List(ctx, f)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to query rescues: %w", err))
	}
	return rescues, nil
}

// ListMine returns rescues the actor requested or is assigned to, personally or via a team.
func (s *Service) ListMine(ctx context.Context, actor *models.Actor, limit int) ([]*models.Rescue, error) {
	ctx = wrap.WithAction(ctx, "list_my_rescues")
	if err := requireActor(ctx, actor); err != nil {
		return nil, err
	}

	rescues, err := s.repos.rescue.ListByActor(ctx, actor.UserID, actor.TeamIDs, s.limit(limit))
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list rescues of actor: %w", err))
	}
	return rescues, nil
}

// Hotspot returns the densest cluster among the rescues Query would return.
func (s *Service) Hotspot(ctx context.Context, f models.RescueFilter) (models.Hotspot, bool, error) {
	rescues, err := s.Query(ctx, f)
	if err != nil {
		return models.Hotspot{}, false, err
	}

	points := make([]geoindex.Point, 0, len(rescues))
	for _, r := range rescues {
		points = append(points, geoindex.Point{Lat: r.Latitude, Lng: r.Longitude})
	}

	b, ok := geoindex.Hotspot(points, s.cfg.HotspotPrecision)
	if !ok {
		return models.Hotspot{}, false, nil
	}
	return models.Hotspot{Latitude: b.Lat, Longitude: b.Lng, Count: b.Count}, true, nil
}

// Resolve closes the rescue for good. Only the requester or the assignee may do it.
// Offers still pending are rejected in the same transaction.
func (s *Service) Resolve(ctx context.Context, id int64, actor *models.Actor) (*models.Rescue, error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "resolve_rescue"), id)
	if err := requireActor(ctx, actor); err != nil {
		return nil, err
	}

	var (
		resolved *models.Rescue
		rejected []*models.Candidate
	)
	err := s.locked(ctx, id, func(ctx context.Context) error {
		err := s.trm.Do(ctx, func(ctx context.Context) error {
			r, err := s.repos.rescue.GetForUpdate(ctx, id)
			if err != nil {
				return wrap.Error(ctx, err)
			}
			if !r.IsRequester(actor) && !r.IsAssignee(actor) {
				return wrap.Error(ctx, types.ErrForbidden)
			}
			if r.IsResolved() {
				return wrap.Error(ctx, types.ErrAlreadyResolved)
			}

			now := s.now()
			resolved, err = s.repos.rescue.Resolve(ctx, id, now)
			if err != nil {
				return wrap.Error(ctx, fmt.Errorf("failed to resolve rescue: %w", err))
			}
			rejected, err = s.rejectOpenOffers(ctx, id, now)
			return err
		})
		if err != nil {
			return err
		}

		s.publish(ctx, statusEvent(resolved, models.AssistanceUpdate{}))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, s.parties(ctx, resolved), actor, types.NotificationResolved, models.NotificationData{
		RescueID: resolved.ID,
		TeamID:   resolved.AssignedTeamID,
	})
	for _, c := range rejected {
		s.notifyRejected(ctx, c, actor)
	}

	return resolved, nil
}

// UpdateAssistance changes assistance metadata. Setting the assistance status to
// resolved resolves the rescue.
func (s *Service) UpdateAssistance(ctx context.Context, id int64, actor *models.Actor, u models.AssistanceUpdate) (*models.Rescue, error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "update_assistance"), id)
	if err := requireActor(ctx, actor); err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	resolving := u.Status != nil && *u.Status == types.AssistanceResolved

	var (
		updated  *models.Rescue
		rejected []*models.Candidate
	)
	err := s.locked(ctx, id, func(ctx context.Context) error {
		err := s.trm.Do(ctx, func(ctx context.Context) error {
			r, err := s.repos.rescue.GetForUpdate(ctx, id)
			if err != nil {
				return wrap.Error(ctx, err)
			}
			if !r.IsRequester(actor) && !r.IsAssignee(actor) {
				return wrap.Error(ctx, types.ErrForbidden)
			}
			if r.IsResolved() {
				return wrap.Error(ctx, types.ErrAlreadyResolved)
			}

			now := s.now()
			updated, err = s.repos.rescue.UpdateAssistance(ctx, id, u, now)
			if err != nil {
				return wrap.Error(ctx, fmt.Errorf("failed to update assistance: %w", err))
			}
			if resolving {
				if updated, err = s.repos.rescue.Resolve(ctx, id, now); err != nil {
					return wrap.Error(ctx, fmt.Errorf("failed to resolve rescue: %w", err))
				}
				if rejected, err = s.rejectOpenOffers(ctx, id, now); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		s.publish(ctx, statusEvent(updated, u))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resolving {
		s.notify(ctx, s.parties(ctx, updated), actor, types.NotificationResolved, models.NotificationData{
			RescueID: updated.ID,
			TeamID:   updated.AssignedTeamID,
		})
		for _, c := range rejected {
			s.notifyRejected(ctx, c, actor)
		}
	}

	return updated, nil
}

// rejectOpenOffers turns down every candidate still pending on a rescue being resolved.
func (s *Service) rejectOpenOffers(ctx context.Context, id int64, at time.Time) ([]*models.Candidate, error) {
	rejected, err := s.repos.candidate.RejectPending(ctx, id, 0, at)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to reject open candidates: %w", err))
	}
	return rejected, nil
}

// statusEvent carries status, state and the assistance fields that changed.
func statusEvent(r *models.Rescue, u models.AssistanceUpdate) models.RescueEvent {
	state := r.State()
	patch := models.RescuePatch{
		Status:           &r.Status,
		State:            &state,
		AssistanceStatus: &r.AssistanceStatus,
	}
	if u.Channel != nil {
		patch.AssistanceChannel = &r.AssistanceChannel
	}
	if u.Provider != nil {
		patch.AssistanceProvider = &r.AssistanceProvider
	}
	return models.NewRescueEvent(types.EventStatus, r, patch)
}
