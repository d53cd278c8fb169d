package rescue

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

/*
Assign accepts one pending candidate on behalf of the requester.

In one transaction, under the rescue lock:
  - the chosen candidate becomes accepted
  - every other pending candidate becomes rejected
  - the rescue gets the candidate's user or team as its assignee

The rescue status is left as is. Two concurrent calls on one rescue are serialized;
the second one observes ErrAlreadyAssigned.
*/
func (s *Service) Assign(ctx context.Context, rescueID, candidateID int64, actor *models.Actor) (*models.Rescue, error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "assign_candidate"), rescueID)
	if err := requireActor(ctx, actor); err != nil {
		return nil, err
	}

	var (
		assigned *models.Rescue
		accepted *models.Candidate
		rejected []*models.Candidate
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
			if r.IsAssigned() {
				return wrap.Error(ctx, types.ErrAlreadyAssigned)
			}

			c, err := s.repos.candidate.Get(ctx, candidateID)
			if err != nil {
				return wrap.Error(ctx, asInvalidCandidate(err))
			}
			if c.RescueID != rescueID || !c.IsPending() {
				return wrap.Error(ctx, types.ErrInvalidCandidate)
			}

			now := s.now()
			if accepted, err = s.repos.candidate.SetStatus(ctx, c.ID, types.CandidatePending, types.CandidateAccepted, now); err != nil {
				return wrap.Error(ctx, asInvalidCandidate(err))
			}
			if rejected, err = s.repos.candidate.RejectPending(ctx, rescueID, c.ID, now); err != nil {
				return wrap.Error(ctx, fmt.Errorf("failed to reject other candidates: %w", err))
			}
			if assigned, err = s.updateAssignment(ctx, rescueID, accepted, now); err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			return err
		}

		state := assigned.State()
		s.publish(ctx, models.NewRescueEvent(types.EventAssigned, assigned, models.RescuePatch{
			State:             &state,
			AssignedRescuerID: assigned.AssignedRescuerID,
			AssignedTeamID:    assigned.AssignedTeamID,
		}))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.l.Info(ctx, "candidate assigned", "candidate_id", accepted.ID, "rejected", len(rejected))

	s.notify(ctx, s.partyOf(ctx, accepted.UserID, accepted.TeamID), actor, types.NotificationAssigned, models.NotificationData{
		RescueID:    rescueID,
		TeamID:      accepted.TeamID,
		CandidateID: &accepted.ID,
	})
	for _, c := range rejected {
		s.notifyRejected(ctx, c, actor)
	}

	return assigned, nil
}

// updateAssignment binds the rescue to the candidate's user or team. The repository
// refuses rescues that already have an assignee.
func (s *Service) updateAssignment(ctx context.Context, rescueID int64, c *models.Candidate, at time.Time) (*models.Rescue, error) {
	var rescuerID, teamID *int64
	if c.IsTeam() {
		teamID = c.TeamID
	} else {
		rescuerID = c.UserID
	}

	r, err := s.repos.rescue.SetAssignment(ctx, rescueID, rescuerID, teamID, at)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to set assignment: %w", err))
	}
	return r, nil
}
