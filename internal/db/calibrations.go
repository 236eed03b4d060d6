package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

// CreateCalibration stores a new calibration and makes it the active one.
func (db *DB) CreateCalibration(ctx context.Context, create *types.CalibrationCreate) (*types.Calibration, error) {
	cal := &types.Calibration{
		CalibrationCreate: *create,
		ID:                uuid.New(),
		CreatedAt:         time.Now().UTC(),
	}
	data, err := json.Marshal(cal.CalibrationCreate)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal calibration: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO calibrations (id, data, created_at) VALUES ($1, $2, $3)`,
		cal.ID, data, cal.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calibration: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE app_state SET active_calibration_id = $1 WHERE id = 1`,
		cal.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set active calibration: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit calibration: %w", err)
	}
	return cal, nil
}

// UpdateCalibration replaces a calibration's document. Returns nil when the
// calibration does not exist.
func (db *DB) UpdateCalibration(ctx context.Context, id uuid.UUID, create *types.CalibrationCreate) (*types.Calibration, error) {
	data, err := json.Marshal(create)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal calibration: %w", err)
	}

	var createdAt time.Time
	err = db.pool.QueryRow(ctx,
		`UPDATE calibrations SET data = $1 WHERE id = $2 RETURNING created_at`,
		data, id,
	).Scan(&createdAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update calibration: %w", err)
	}
	return &types.Calibration{CalibrationCreate: *create, ID: id, CreatedAt: createdAt}, nil
}

// GetCalibration retrieves a calibration by ID, or nil when absent.
func (db *DB) GetCalibration(ctx context.Context, id uuid.UUID) (*types.Calibration, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, data, created_at FROM calibrations WHERE id = $1`, id)
	cal, err := scanCalibration(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get calibration: %w", err)
	}
	return cal, nil
}

// GetActiveCalibration returns the calibration uploads and listings default
// to, or nil when none is active.
func (db *DB) GetActiveCalibration(ctx context.Context) (*types.Calibration, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT c.id, c.data, c.created_at
		 FROM calibrations c
		 JOIN app_state s ON s.active_calibration_id = c.id
		 WHERE s.id = 1`)
	cal, err := scanCalibration(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active calibration: %w", err)
	}
	return cal, nil
}

// SetActiveCalibration points the active calibration at an existing record.
// Returns false when the calibration does not exist.
func (db *DB) SetActiveCalibration(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE app_state SET active_calibration_id = $1
		 WHERE id = 1 AND EXISTS (SELECT 1 FROM calibrations WHERE id = $1)`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set active calibration: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListCalibrations returns job requisitions (templates excluded), newest
// first.
func (db *DB) ListCalibrations(ctx context.Context) ([]types.Calibration, error) {
	return db.listCalibrations(ctx, false)
}

// ListTemplates returns requisition templates, newest first.
func (db *DB) ListTemplates(ctx context.Context) ([]types.Calibration, error) {
	return db.listCalibrations(ctx, true)
}

func (db *DB) listCalibrations(ctx context.Context, templates bool) ([]types.Calibration, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, data, created_at FROM calibrations
		 WHERE COALESCE((data->>'is_template')::boolean, false) = $1
		 ORDER BY created_at DESC`,
		templates,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list calibrations: %w", err)
	}
	defer rows.Close()

	var out []types.Calibration
	for rows.Next() {
		cal, err := scanCalibration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calibration: %w", err)
		}
		out = append(out, *cal)
	}
	return out, rows.Err()
}

// DeleteCalibration removes a calibration and its candidates. When the
// deleted calibration was active, the most recent remaining one becomes
// active. Returns false when the calibration does not exist.
func (db *DB) DeleteCalibration(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM calibrations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete calibration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE app_state SET active_calibration_id =
			(SELECT id FROM calibrations ORDER BY created_at DESC LIMIT 1)
		 WHERE id = 1 AND active_calibration_id IS NULL`)
	if err != nil {
		return false, fmt.Errorf("failed to reassign active calibration: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalibration(row rowScanner) (*types.Calibration, error) {
	var (
		cal  types.Calibration
		data []byte
	)
	if err := row.Scan(&cal.ID, &data, &cal.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &cal.CalibrationCreate); err != nil {
		return nil, fmt.Errorf("failed to unmarshal calibration %s: %w", cal.ID, err)
	}
	return &cal, nil
}
