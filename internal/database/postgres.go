package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/bankquest/backend/internal/config"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS goals (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	goal_text TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS goals_user_id_idx ON goals (user_id, id DESC);

CREATE TABLE IF NOT EXISTS challenges (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	challenge_text TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	category TEXT NOT NULL,
	xp_reward INTEGER NOT NULL,
	time_to_complete TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT 'ai',
	status TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS challenges_user_id_idx ON challenges (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS generation_logs (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	provider TEXT NOT NULL,
	model TEXT NOT NULL,
	prompt TEXT NOT NULL,
	raw_response TEXT,
	success BOOLEAN NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// OpenPostgres открывает пул подключений к PostgreSQL с ретраями и создает схему.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, cfgErr := pgxpool.ParseConfig(cfg.DSN())
	if cfgErr != nil {
		return nil, fmt.Errorf("parse database config: %w", cfgErr)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	// MaxIdleConns maps closest to MinConns in pgxpool.
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime

	var pool *pgxpool.Pool
	var err error

	retries := 5
	backoff := time.Second * 1

	for i := 0; i < retries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = pool.Ping(pingCtx)
			cancel()

			if err == nil {
				break
			}
		}

		if pool != nil {
			pool.Close()
			pool = nil
		}

		slog.Warn("database connection attempt failed",
			slog.Int("attempt", i+1),
			slog.Int("retries", retries),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}

	if pool == nil {
		return nil, fmt.Errorf("connect to database after %d attempts: %w", retries, err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return pool, nil
}
