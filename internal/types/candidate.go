package types

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CandidateProfile is a parsed resume attached to a calibration.
type CandidateProfile struct {
	ID             uuid.UUID `json:"id"`
	CalibrationID  uuid.UUID `json:"calibration_id"`
	Name           string    `json:"name"`
	ParsedText     string    `json:"parsed_text"`
	SourceFilename string    `json:"source_filename,omitempty"`
	Stage          string    `json:"stage,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DefaultPipelineStage is assigned to uploads when the calibration defines
// no pipeline stages.
const DefaultPipelineStage = "Applied"

// RankedCandidate is a candidate profile merged with its scoring state for
// the ranked listing. Candidates without a stored state appear as pending.
type RankedCandidate struct {
	CandidateProfile
	Scoring CandidateScoringState `json:"scoring"`
}

var statusRank = map[ScoringStatus]int{
	ScoringCompleted:  0,
	ScoringProcessing: 1,
	ScoringPending:    2,
	ScoringFailed:     3,
}

// SortRanked orders candidates for the ranked listing: completed before
// in-flight before pending before failed, then by score descending, then
// by name case-insensitively.
func SortRanked(candidates []RankedCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		ri, okI := statusRank[candidates[i].Scoring.Status]
		if !okI {
			ri = 9
		}
		rj, okJ := statusRank[candidates[j].Scoring.Status]
		if !okJ {
			rj = 9
		}
		if ri != rj {
			return ri < rj
		}
		si, sj := scoreOrNeg(candidates[i].Scoring.TotalScore), scoreOrNeg(candidates[j].Scoring.TotalScore)
		if si != sj {
			return si > sj
		}
		return strings.ToLower(candidates[i].Name) < strings.ToLower(candidates[j].Name)
	})
}

func scoreOrNeg(score *int) int {
	if score == nil {
		return -1
	}
	return *score
}
