package db

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

// CandidateAnalyticsRow is one candidate flattened for pipeline analytics:
// the stage they sit in, the requisition they belong to, and when they were
// uploaded. Template calibrations are excluded.
type CandidateAnalyticsRow struct {
	Stage       string
	Requisition string
	Status      types.ScoringStatus
	TotalScore  *int
	CreatedAt   time.Time
}

// ListCandidateAnalytics returns one row per candidate across all job
// calibrations. Candidates without an explicit stage inherit the first
// pipeline stage of their calibration.
func (db *DB) ListCandidateAnalytics(ctx context.Context) ([]CandidateAnalyticsRow, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT COALESCE(NULLIF(cand.stage, ''), COALESCE(cal.data->'pipeline_stages'->>0, $1)),
		       COALESCE(cal.data->>'requisition_name', ''),
		       COALESCE(cand.scoring->>'status', $2),
		       (cand.scoring->>'total_score')::int,
		       cand.created_at
		FROM candidates cand
		JOIN calibrations cal ON cal.id = cand.calibration_id
		WHERE COALESCE((cal.data->>'is_template')::boolean, false) = false
		ORDER BY cand.created_at
	`, types.DefaultPipelineStage, string(types.ScoringPending))
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate analytics: %w", err)
	}
	defer rows.Close()

	var out []CandidateAnalyticsRow
	for rows.Next() {
		var row CandidateAnalyticsRow
		if err := rows.Scan(&row.Stage, &row.Requisition, &row.Status, &row.TotalScore, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analytics row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
