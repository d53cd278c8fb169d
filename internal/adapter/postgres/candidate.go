package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/postgres"
)

const candidateColumns = `id, rescue_id, user_id, team_id, created_by, status, created_at, updated_at`

type CandidateRepo struct {
	db *pgxpool.Pool
}

func NewCandidateRepo(db *pgxpool.Pool) *CandidateRepo {
	return &CandidateRepo{db: db}
}

func scanCandidate(row pgx.Row) (*models.Candidate, error) {
	var c models.Candidate
	if err := row.Scan(&c.ID, &c.RescueID, &c.UserID, &c.TeamID, &c.CreatedBy, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create stores a candidate. The partial unique indexes on open candidacies turn a
// concurrent duplicate into ErrDuplicateCandidate.
func (r *CandidateRepo) Create(ctx context.Context, c *models.Candidate) (_ *models.Candidate, err error) {
	const op = "CandidateRepo.Create"
	defer observe(op, time.Now(), &err)

	query := `
		INSERT INTO rescue_candidates (rescue_id, user_id, team_id, created_by, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + candidateColumns

	created, err := scanCandidate(TxorDB(ctx, r.db).QueryRow(ctx, query,
		c.RescueID, c.UserID, c.TeamID, c.CreatedBy, c.Status, c.CreatedAt, c.UpdatedAt))
	switch {
	case err == nil:
		return created, nil
	case postgres.IsUniqueViolation(err):
		return nil, types.ErrDuplicateCandidate
	case postgres.IsForeignKeyViolation(err):
		return nil, types.ErrRescueNotFound
	default:
		return nil, fmt.Errorf("%s: %w", op, err)
	}
}

func (r *CandidateRepo) Get(ctx context.Context, id int64) (_ *models.Candidate, err error) {
	const op = "CandidateRepo.Get"
	defer observe(op, time.Now(), &err)

	c, err := scanCandidate(TxorDB(ctx, r.db).QueryRow(ctx, `SELECT `+candidateColumns+` FROM rescue_candidates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (r *CandidateRepo) ListByRescue(ctx context.Context, rescueID int64) (_ []*models.Candidate, err error) {
	const op = "CandidateRepo.ListByRescue"
	defer observe(op, time.Now(), &err)

	return r.list(ctx, op, `SELECT `+candidateColumns+` FROM rescue_candidates WHERE rescue_id = $1 ORDER BY created_at, id`, rescueID)
}

// FindOpen returns the non-rejected candidacy of the user or team, or nil.
func (r *CandidateRepo) FindOpen(ctx context.Context, rescueID int64, userID, teamID *int64) (_ *models.Candidate, err error) {
	const op = "CandidateRepo.FindOpen"
	defer observe(op, time.Now(), &err)

	query := `
		SELECT ` + candidateColumns + ` FROM rescue_candidates
		WHERE rescue_id = $1 AND status <> 'rejected'
		  AND ((user_id IS NOT NULL AND user_id = $2) OR (team_id IS NOT NULL AND team_id = $3))
		LIMIT 1`

	c, err := scanCandidate(TxorDB(ctx, r.db).QueryRow(ctx, query, rescueID, userID, teamID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// SetStatus moves a candidate from one status to another; any other current status is
// ErrInvalidState. A second accepted candidate for one rescue violates a unique index
// and is reported as ErrAlreadyAssigned.
func (r *CandidateRepo) SetStatus(ctx context.Context, id int64, from, to types.CandidateStatus, at time.Time) (_ *models.Candidate, err error) {
	const op = "CandidateRepo.SetStatus"
	defer observe(op, time.Now(), &err)
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE rescue_candidates SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING ` + candidateColumns

	c, err := scanCandidate(q.QueryRow(ctx, query, id, from, to, at))
	switch {
	case err == nil:
		return c, nil
	case postgres.IsUniqueViolation(err):
		return nil, types.ErrAlreadyAssigned
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var current types.CandidateStatus
	if err := q.QueryRow(ctx, `SELECT status FROM rescue_candidates WHERE id = $1`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nil, fmt.Errorf("%w: candidate is %s", types.ErrInvalidState, current)
}

// RejectPending rejects every pending candidate of the rescue except exceptID.
func (r *CandidateRepo) RejectPending(ctx context.Context, rescueID, exceptID int64, at time.Time) (_ []*models.Candidate, err error) {
	const op = "CandidateRepo.RejectPending"
	defer observe(op, time.Now(), &err)

	query := `
		UPDATE rescue_candidates SET status = 'rejected', updated_at = $3
		WHERE rescue_id = $1 AND id <> $2 AND status = 'pending'
		RETURNING ` + candidateColumns

	return r.list(ctx, op, query, rescueID, exceptID, at)
}

func (r *CandidateRepo) list(ctx context.Context, op, query string, args ...any) ([]*models.Candidate, error) {
	rows, err := TxorDB(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
