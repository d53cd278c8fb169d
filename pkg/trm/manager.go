package trm

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager runs fn so that every repository call made with the ctx passed to fn
// shares one transaction. Nested calls join the outer transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Manager implements a transaction manager using pgx
type Manager struct {
	db *pgxpool.Pool
}

// New returns a new Transaction Manager
func New(db *pgxpool.Pool) *Manager {
	return &Manager{db: db}
}

// Unique key for TX
type ctxKeyTx struct{}
type ctxTxOptions struct{}

var TxKey = ctxKeyTx{}
var txOptions = ctxTxOptions{}

// Do executes the provided function within a transaction context.
// It starts a new transaction if one does not already exist in the context.
// Only the call that started the transaction commits or rolls it back.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if tx, ok := ctx.Value(TxKey).(pgx.Tx); ok && tx != nil {
		return fn(ctx)
	}

	opts, _ := ctx.Value(txOptions).(pgx.TxOptions)
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to start new transaction: %w", err)
	}
	ctx = context.WithValue(ctx, TxKey, tx)

	defer func() {
		if p := recover(); p != nil {
			// if a panic occurred, rollback
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				fmt.Printf("failed to rollback tx after panic: %v\n", rbErr)
			}
			panic(p) // re-throw panic after rollback
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = fmt.Errorf("failed to rollback tx: %v (original error: %w)", rbErr, err)
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("failed to commit tx: %w", commitErr)
			}
		}
	}()

	err = fn(ctx)

	return err
}

// DoReadOnly executes the provided function within a read-only transaction context.
func (m *Manager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := pgx.TxOptions{
		AccessMode: pgx.ReadOnly,
	}

	return m.Do(WithOptionsCtx(ctx, opts), fn)
}

func WithOptionsCtx(ctx context.Context, opt pgx.TxOptions) context.Context {
	return context.WithValue(ctx, txOptions, opt)
}
