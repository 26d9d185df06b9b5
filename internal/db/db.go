package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const (
	maxConns        = 10
	maxConnIdleTime = 5 * time.Minute
	connectAttempts = 3
)

// NewPool creates a new pgx connection pool using the provided DSN.
// It pings the database to ensure the connection is valid, retrying a few
// times while the database comes up.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MaxConnIdleTime = maxConnIdleTime

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pool, err := connect(ctx, cfg)
		if err == nil {
			log.Info().Str("host", cfg.ConnConfig.Host).Msg("connected to database")
			return pool, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("database connection failed")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}

	return nil, lastErr
}

func connect(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	// Use a short-lived context for the initial ping.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
