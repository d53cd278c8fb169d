package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TeamDirectory reads team memberships replicated from the team service.
type TeamDirectory struct {
	db *pgxpool.Pool
}

func NewTeamDirectory(db *pgxpool.Pool) *TeamDirectory {
	return &TeamDirectory{db: db}
}

func (d *TeamDirectory) Members(ctx context.Context, teamID int64) (_ []int64, err error) {
	const op = "TeamDirectory.Members"
	defer observe(op, time.Now(), &err)

	return d.ids(ctx, op, `SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY user_id`, teamID)
}

func (d *TeamDirectory) TeamsOf(ctx context.Context, userID int64) (_ []int64, err error) {
	const op = "TeamDirectory.TeamsOf"
	defer observe(op, time.Now(), &err)

	return d.ids(ctx, op, `SELECT team_id FROM team_members WHERE user_id = $1 ORDER BY team_id`, userID)
}

func (d *TeamDirectory) ids(ctx context.Context, op, query string, arg int64) ([]int64, error) {
	rows, err := TxorDB(ctx, d.db).Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}
