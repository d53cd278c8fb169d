package rescue

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

// Register offers help with a rescue, personally or, when teamID is set, on behalf of
// a team the actor belongs to.
func (s *Service) Register(ctx context.Context, rescueID int64, actor *models.Actor, teamID *int64) (*models.Candidate, error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "register_candidate"), rescueID)
	if err := requireActor(ctx, actor); err != nil {
		return nil, err
	}
	if teamID != nil && !actor.MemberOf(*teamID) {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: actor is not a member of team %d", types.ErrForbidden, *teamID))
	}

	candidate := &models.Candidate{
		RescueID:  rescueID,
		TeamID:    teamID,
		CreatedBy: actor.UserID,
		Status:    types.CandidatePending,
	}
	if teamID == nil {
		candidate.UserID = &actor.UserID
	}

	var (
		created *models.Candidate
		rescue  *models.Rescue
	)
	err := s.locked(ctx, rescueID, func(ctx context.Context) error {
		err := s.trm.Do(ctx, func(ctx context.Context) error {
			r, err := s.repos.rescue.GetForUpdate(ctx, rescueID)
			if err != nil {
				return wrap.Error(ctx, err)
			}
			if r.IsResolved() || r.IsAssigned() {
				return wrap.Error(ctx, types.ErrRescueClosed)
			}

			self, err := s.isSelfCandidacy(ctx, r, candidate)
			if err != nil {
				return wrap.Error(ctx, err)
			}
			if self {
				return wrap.Error(ctx, types.ErrSelfCandidacy)
			}

			open, err := s.repos.candidate.FindOpen(ctx, rescueID, candidate.UserID, candidate.TeamID)
			if err != nil {
				return wrap.Error(ctx, fmt.Errorf("failed to look up open candidacy: %w", err))
			}
			if open != nil {
				return wrap.Error(ctx, types.ErrDuplicateCandidate)
			}

			now := s.now()
			candidate.CreatedAt, candidate.UpdatedAt = now, now
			if created, err = s.repos.candidate.Create(ctx, candidate); err != nil {
				return wrap.Error(ctx, fmt.Errorf("failed to create candidate: %w", err))
			}
			if rescue, err = s.repos.rescue.Touch(ctx, rescueID, now); err != nil {
				return wrap.Error(ctx, fmt.Errorf("failed to advance rescue version: %w", err))
			}
			return nil
		})
		if err != nil {
			return err
		}

		s.publish(ctx, candidateEvent(rescue, created))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, []int64{rescue.UserID}, actor, types.NotificationCandidate, models.NotificationData{
		RescueID:    rescueID,
		TeamID:      created.TeamID,
		CandidateID: &created.ID,
	})

	return created, nil
}

// isSelfCandidacy reports whether the offer comes from the requester: personally or
// through a team the requester belongs to.
func (s *Service) isSelfCandidacy(ctx context.Context, r *models.Rescue, c *models.Candidate) (bool, error) {
	if c.UserID != nil {
		return *c.UserID == r.UserID, nil
	}
	if c.CreatedBy == r.UserID {
		return true, nil
	}
	members, err := s.teams.Members(ctx, *c.TeamID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve team members: %w", err)
	}
	return slices.Contains(members, r.UserID), nil
}

// ListCandidates returns the candidates of a rescue in creation order. The requester
// sees all of them; anyone else only sees their own offers.
func (s *Service) ListCandidates(ctx context.Context, rescueID int64, actor *models.Actor) ([]*models.Candidate, error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "list_candidates"), rescueID)
	if err := requireActor(ctx, actor); err != nil {
		return nil, err
	}

	r, err := s.repos.rescue.Get(ctx, rescueID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	candidates, err := s.repos.candidate.ListByRescue(ctx, rescueID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list candidates: %w", err))
	}
	if r.IsRequester(actor) {
		return candidates, nil
	}

	own := make([]*models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.OwnedBy(actor) {
			own = append(own, c)
		}
	}
	return own, nil
}

// Reject turns down a pending candidate. Only the requester may reject, and not once
// the rescue is resolved.
func (s *Service) Reject(ctx context.Context, rescueID, candidateID int64, actor *models.Actor) (*models.Candidate, error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "reject_candidate"), rescueID)
	if err := requireActor(ctx, actor); err != nil {
		return nil, err
	}

	var (
		rejected *models.Candidate
		rescue   *models.Rescue
	)
	err := s.locked(ctx, rescueID, func(ctx context.Context) error {
		err := s.trm.Do(ctx, func(ctx context.Context) error {
			r, err := s.repos.rescue.GetForUpdate(ctx, rescueID)
			if err != nil {
				return wrap.Error(ctx, err)
			}
			if !r.IsRequester(actor) {
				return wrap.Error(ctx, types.ErrForbidden)
			}
			if r.IsResolved() {
				return wrap.Error(ctx, types.ErrAlreadyResolved)
			}

			c, err := s.repos.candidate.Get(ctx, candidateID)
			if err != nil {
				return wrap.Error(ctx, err)
			}
			if c.RescueID != rescueID {
				return wrap.Error(ctx, types.ErrCandidateNotFound)
			}

			now := s.now()
			rejected, err = s.repos.candidate.SetStatus(ctx, candidateID, types.CandidatePending, types.CandidateRejected, now)
			if err != nil {
				return wrap.Error(ctx, err)
			}
			if rescue, err = s.repos.rescue.Touch(ctx, rescueID, now); err != nil {
				return wrap.Error(ctx, fmt.Errorf("failed to advance rescue version: %w", err))
			}
			return nil
		})
		if err != nil {
			return err
		}

		s.publish(ctx, candidateEvent(rescue, rejected))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyRejected(ctx, rejected, actor)
	return rejected, nil
}

func (s *Service) notifyRejected(ctx context.Context, c *models.Candidate, actor *models.Actor) {
	s.notify(ctx, s.partyOf(ctx, c.UserID, c.TeamID), actor, types.NotificationCandidateRejected, models.NotificationData{
		RescueID:    c.RescueID,
		TeamID:      c.TeamID,
		CandidateID: &c.ID,
	})
}

// candidateEvent is visible to the requester and the candidate only.
func candidateEvent(r *models.Rescue, c *models.Candidate) models.RescueEvent {
	au := models.Audience{UserIDs: []int64{r.UserID}, TeamID: c.TeamID}
	if c.UserID != nil {
		au.UserIDs = append(au.UserIDs, *c.UserID)
	}
	return models.NewRescueEvent(types.EventCandidate, r, models.RescuePatch{Candidate: c}).ForParties(au)
}

// asInvalidCandidate maps lookups of a candidate that cannot be accepted to ErrInvalidCandidate.
func asInvalidCandidate(err error) error {
	if errors.Is(err, types.ErrCandidateNotFound) || errors.Is(err, types.ErrInvalidState) {
		return fmt.Errorf("%w: %v", types.ErrInvalidCandidate, err)
	}
	return err
}
