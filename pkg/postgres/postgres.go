package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgreDB struct {
	Pool     *pgxpool.Pool
	DBConfig *pgxpool.Config
}

type Config interface {
	GetDSN() string
}

// PoolConfig is implemented by configs that tune the pool.
type PoolConfig interface {
	GetMaxConns() int32
	GetMinConns() int32
	GetMaxConnLifetime() time.Duration
	GetMaxConnIdleTime() time.Duration
}

func New(ctx context.Context, config Config) (*PostgreDB, error) {
	dbConfig, err := pgxpool.ParseConfig(config.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	if pc, ok := config.(PoolConfig); ok {
		if pc.GetMaxConns() > 0 {
			dbConfig.MaxConns = pc.GetMaxConns()
		}
		if pc.GetMinConns() > 0 {
			dbConfig.MinConns = pc.GetMinConns()
		}
		if pc.GetMaxConnLifetime() > 0 {
			dbConfig.MaxConnLifetime = pc.GetMaxConnLifetime()
		}
		if pc.GetMaxConnIdleTime() > 0 {
			dbConfig.MaxConnIdleTime = pc.GetMaxConnIdleTime()
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	// Ping the database
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgreDB{
		Pool:     pool,
		DBConfig: dbConfig,
	}, nil
}

// Close closes every connection of the pool.
func (db *PostgreDB) Close() {
	if db != nil && db.Pool != nil {
		db.Pool.Close()
	}
}
