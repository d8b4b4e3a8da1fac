package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hurou927/vocabpack/internal/config"
)

// NewPool creates a pgx connection pool for a database-hosted catalog and
// verifies it with a ping.
func NewPool(ctx context.Context, cfg *config.Connection, log *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	poolCfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if log != nil {
		log.Debug("connected to catalog database",
			zap.String("host", cfg.Host), zap.Int("port", cfg.Port), zap.String("database", cfg.Database))
	}
	return pool, nil
}
