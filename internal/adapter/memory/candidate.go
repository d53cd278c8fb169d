package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

type CandidateRepo struct {
	s *Store
}

func NewCandidateRepo(s *Store) *CandidateRepo {
	return &CandidateRepo{s: s}
}

// Create stores a pending candidate. A second non-rejected candidacy of the same user
// or team on one rescue is ErrDuplicateCandidate.
func (r *CandidateRepo) Create(ctx context.Context, c *models.Candidate) (*models.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.findOpenLocked(c.RescueID, c.UserID, c.TeamID) != nil {
		return nil, types.ErrDuplicateCandidate
	}
	if _, ok := r.s.rescues[c.RescueID]; !ok {
		return nil, types.ErrRescueNotFound
	}

	r.s.candidateSeq++
	stored := cloneCandidate(c)
	stored.ID = r.s.candidateSeq
	if stored.Status == "" {
		stored.Status = types.CandidatePending
	}
	r.s.candidates[stored.ID] = stored

	id := stored.ID
	record(ctx, func() { delete(r.s.candidates, id) })

	return cloneCandidate(stored), nil
}

func (r *CandidateRepo) Get(ctx context.Context, id int64) (*models.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.candidates[id]
	if !ok {
		return nil, types.ErrCandidateNotFound
	}
	return cloneCandidate(c), nil
}

// ListByRescue returns every candidate of the rescue in creation order.
func (r *CandidateRepo) ListByRescue(ctx context.Context, rescueID int64) ([]*models.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.Candidate
	for _, c := range r.s.candidates {
		if c.RescueID == rescueID {
			out = append(out, cloneCandidate(c))
		}
	}
	slices.SortFunc(out, func(a, b *models.Candidate) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// FindOpen returns the non-rejected candidacy of the user or team, or nil.
func (r *CandidateRepo) FindOpen(ctx context.Context, rescueID int64, userID, teamID *int64) (*models.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return cloneCandidate(r.findOpenLocked(rescueID, userID, teamID)), nil
}

func (r *CandidateRepo) findOpenLocked(rescueID int64, userID, teamID *int64) *models.Candidate {
	for _, c := range r.s.candidates {
		if c.RescueID != rescueID || c.Status == types.CandidateRejected {
			continue
		}
		if userID != nil && c.UserID != nil && *c.UserID == *userID {
			return c
		}
		if teamID != nil && c.TeamID != nil && *c.TeamID == *teamID {
			return c
		}
	}
	return nil
}

// SetStatus moves a candidate from one status to another. Any other current status
// is ErrInvalidState.
func (r *CandidateRepo) SetStatus(ctx context.Context, id int64, from, to types.CandidateStatus, at time.Time) (*models.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.candidates[id]
	if !ok {
		return nil, types.ErrCandidateNotFound
	}
	if current.Status != from {
		return nil, fmt.Errorf("%w: candidate is %s", types.ErrInvalidState, current.Status)
	}
	if to == types.CandidateAccepted && r.hasAcceptedLocked(current.RescueID) {
		return nil, types.ErrAlreadyAssigned
	}

	next := cloneCandidate(current)
	next.Status = to
	next.UpdatedAt = at
	r.s.candidates[id] = next
	record(ctx, func() { r.s.candidates[id] = current })

	return cloneCandidate(next), nil
}

// RejectPending rejects every pending candidate of the rescue except exceptID.
func (r *CandidateRepo) RejectPending(ctx context.Context, rescueID, exceptID int64, at time.Time) ([]*models.Candidate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var rejected []*models.Candidate
	for id, current := range r.s.candidates {
		if current.RescueID != rescueID || id == exceptID || !current.IsPending() {
			continue
		}
		next := cloneCandidate(current)
		next.Status = types.CandidateRejected
		next.UpdatedAt = at
		r.s.candidates[id] = next
		record(ctx, func() { r.s.candidates[id] = current })
		rejected = append(rejected, cloneCandidate(next))
	}
	slices.SortFunc(rejected, func(a, b *models.Candidate) int { return cmp.Compare(a.ID, b.ID) })
	return rejected, nil
}

func (r *CandidateRepo) hasAcceptedLocked(rescueID int64) bool {
	for _, c := range r.s.candidates {
		if c.RescueID == rescueID && c.Status == types.CandidateAccepted {
			return true
		}
	}
	return false
}
