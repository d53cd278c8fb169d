package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/rescue-coordination/pkg/metrics"
	"github.com/Temutjin2k/rescue-coordination/pkg/trm"
)

type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// TxorDB returns the transaction stored in ctx by the tx manager, or the pool.
func TxorDB(ctx context.Context, db *pgxpool.Pool) Querier {
	tx, ok := ctx.Value(trm.TxKey).(pgx.Tx)
	if !ok {
		return db
	}
	return tx
}

// observe records the duration and outcome of a repository call.
// Use as: defer observe(op, time.Now(), &err).
func observe(op string, start time.Time, err *error) {
	metrics.RecordDatabaseQuery(op, *err, time.Since(start))
}
