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

// AddCandidates stores newly uploaded candidate profiles with a pending
// scoring state.
func (db *DB) AddCandidates(ctx context.Context, profiles []types.CandidateProfile) error {
	if len(profiles) == 0 {
		return nil
	}
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, p := range profiles {
		scoring, err := json.Marshal(types.CandidateScoringState{
			Status:    types.ScoringPending,
			Summary:   "Queued for scoring.",
			UpdatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal scoring state: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO candidates (id, calibration_id, name, parsed_text, source_filename, stage, notes, scoring, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			p.ID, p.CalibrationID, p.Name, p.ParsedText, p.SourceFilename, p.Stage, p.Notes, scoring, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert candidate %s: %w", p.ID, err)
		}
	}
	return tx.Commit(ctx)
}

// GetCandidateProfile retrieves one candidate of a calibration, or nil.
func (db *DB) GetCandidateProfile(ctx context.Context, calibrationID, candidateID uuid.UUID) (*types.CandidateProfile, error) {
	var p types.CandidateProfile
	err := db.pool.QueryRow(ctx,
		`SELECT id, calibration_id, name, parsed_text, source_filename, stage, notes, created_at
		 FROM candidates WHERE calibration_id = $1 AND id = $2`,
		calibrationID, candidateID,
	).Scan(&p.ID, &p.CalibrationID, &p.Name, &p.ParsedText, &p.SourceFilename, &p.Stage, &p.Notes, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return &p, nil
}

// ListCandidateIDs returns the IDs of all candidates of a calibration.
func (db *DB) ListCandidateIDs(ctx context.Context, calibrationID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id FROM candidates WHERE calibration_id = $1 ORDER BY created_at`,
		calibrationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate IDs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan candidate ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListRankedCandidates returns a calibration's candidates merged with
// their scoring state, in ranked order.
func (db *DB) ListRankedCandidates(ctx context.Context, calibrationID uuid.UUID) ([]types.RankedCandidate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, calibration_id, name, parsed_text, source_filename, stage, notes, scoring, created_at
		 FROM candidates WHERE calibration_id = $1`,
		calibrationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var out []types.RankedCandidate
	for rows.Next() {
		var (
			rc      types.RankedCandidate
			scoring []byte
		)
		err := rows.Scan(&rc.ID, &rc.CalibrationID, &rc.Name, &rc.ParsedText,
			&rc.SourceFilename, &rc.Stage, &rc.Notes, &scoring, &rc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if err := json.Unmarshal(scoring, &rc.Scoring); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scoring state for %s: %w", rc.ID, err)
		}
		if rc.Scoring.Status == "" {
			rc.Scoring = types.CandidateScoringState{
				Status:  types.ScoringPending,
				Summary: "Awaiting scoring.",
			}
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	types.SortRanked(out)
	return out, nil
}

// UpdateCandidate applies a partial update to a candidate's pipeline
// fields. Nil fields are left unchanged. Returns false when the candidate
// does not exist.
func (db *DB) UpdateCandidate(ctx context.Context, calibrationID, candidateID uuid.UUID, name, stage, notes *string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE candidates SET
			name = COALESCE($3, name),
			stage = COALESCE($4, stage),
			notes = COALESCE($5, notes)
		 WHERE calibration_id = $1 AND id = $2`,
		calibrationID, candidateID, name, stage, notes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update candidate: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteCandidate removes one candidate. Returns false when absent.
func (db *DB) DeleteCandidate(ctx context.Context, calibrationID, candidateID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM candidates WHERE calibration_id = $1 AND id = $2`,
		calibrationID, candidateID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete candidate: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClearCandidates removes every candidate of a calibration.
func (db *DB) ClearCandidates(ctx context.Context, calibrationID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM candidates WHERE calibration_id = $1`, calibrationID)
	if err != nil {
		return fmt.Errorf("failed to clear candidates: %w", err)
	}
	return nil
}

// MarkCandidateScoring transitions a candidate to the processing state.
func (db *DB) MarkCandidateScoring(ctx context.Context, calibrationID, candidateID uuid.UUID) error {
	return db.setScoringState(ctx, calibrationID, candidateID, types.CandidateScoringState{
		Status:    types.ScoringProcessing,
		Summary:   "Scoring in progress.",
		UpdatedAt: time.Now().UTC(),
	})
}

// SetCandidateScore stores a completed scoring payload.
func (db *DB) SetCandidateScore(ctx context.Context, calibrationID, candidateID uuid.UUID, payload *types.RankingPayload) error {
	return db.setScoringState(ctx, calibrationID, candidateID, types.CompletedState(payload, time.Now().UTC()))
}

// MarkCandidateScoringFailed records a scoring failure.
func (db *DB) MarkCandidateScoringFailed(ctx context.Context, calibrationID, candidateID uuid.UUID, scoreErr string) error {
	if scoreErr == "" {
		scoreErr = "Unknown scoring error."
	}
	return db.setScoringState(ctx, calibrationID, candidateID, types.CandidateScoringState{
		Status:    types.ScoringFailed,
		Summary:   "Scoring failed.",
		Error:     scoreErr,
		UpdatedAt: time.Now().UTC(),
	})
}

func (db *DB) setScoringState(ctx context.Context, calibrationID, candidateID uuid.UUID, state types.CandidateScoringState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal scoring state: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE candidates SET scoring = $3 WHERE calibration_id = $1 AND id = $2`,
		calibrationID, candidateID, data,
	)
	if err != nil {
		return fmt.Errorf("failed to store scoring state: %w", err)
	}
	return nil
}
