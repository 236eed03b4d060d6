// Package db provides PostgreSQL persistence for calibrations and
// candidates.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables the service needs when they do not
// exist yet. Calibration and scoring documents are stored as JSONB so the
// rubric can evolve without migrations.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS calibrations (
			id UUID PRIMARY KEY,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS app_state (
			id INT PRIMARY KEY CHECK (id = 1),
			active_calibration_id UUID REFERENCES calibrations(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id UUID PRIMARY KEY,
			calibration_id UUID NOT NULL REFERENCES calibrations(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			parsed_text TEXT NOT NULL,
			source_filename TEXT NOT NULL DEFAULT '',
			stage TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			scoring JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_calibration ON candidates(calibration_id)`,
		`INSERT INTO app_state (id, active_calibration_id) VALUES (1, NULL) ON CONFLICT (id) DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
