package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema files that were not applied yet, in name order,
// each in its own transaction.
func Migrate(ctx context.Context, db *pgxpool.Pool, log logger.Logger) error {
	const op = "postgres.Migrate"

	if _, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("%s: create schema_migrations: %w", op, err)
	}

	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	slices.Sort(names)

	for _, name := range names {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("%s: read %s: %w", op, name, err)
		}

		applied := false
		err = pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
			tag, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT DO NOTHING`, name)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return nil
			}
			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return err
			}
			applied = true
			return nil
		})
		if err != nil {
			return fmt.Errorf("%s: apply %s: %w", op, name, err)
		}
		if applied {
			log.Info(ctx, "migration applied", "version", name)
		}
	}

	return nil
}
