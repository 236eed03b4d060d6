package types

import "time"

// ScoringStatus tracks where a candidate's scoring job is in its lifecycle.
type ScoringStatus string

// Scoring lifecycle states.
const (
	ScoringPending    ScoringStatus = "pending"
	ScoringProcessing ScoringStatus = "processing"
	ScoringCompleted  ScoringStatus = "completed"
	ScoringFailed     ScoringStatus = "failed"
)

// RankingSubMetric is one of the six scored rubric categories.
type RankingSubMetric struct {
	Key            string   `json:"key"`
	Label          string   `json:"label"`
	Rating         int      `json:"rating"`
	PointsEarned   int      `json:"points_earned"`
	PointsPossible int      `json:"points_possible"`
	MatchedTerms   []string `json:"matched_terms"`
	Evidence       []string `json:"evidence"`
	Rationale      string   `json:"rationale"`
}

// RankingPayload is the full explainable scoring result for one candidate
// against one calibration. sum(points_possible) is always 100 and
// total_score equals the clamped sum of points_earned.
type RankingPayload struct {
	TotalScore        int                `json:"total_score"`
	ExperienceYears   *float64           `json:"experience_years"`
	Summary           string             `json:"summary"`
	MatchedSkills     []string           `json:"matched_skills"`
	MatchedTitles     []string           `json:"matched_titles"`
	MatchedCompanies  []string           `json:"matched_companies"`
	MatchedIndustries []string           `json:"matched_industries"`
	MatchedSchools    []string           `json:"matched_schools"`
	MatchedDegrees    []string           `json:"matched_degrees"`
	SubMetrics        []RankingSubMetric `json:"sub_metrics"`
}

// CandidateScoringState is the persisted scoring status plus the last
// completed payload, stored verbatim alongside the status enum.
type CandidateScoringState struct {
	Status            ScoringStatus      `json:"status"`
	TotalScore        *int               `json:"total_score,omitempty"`
	ExperienceYears   *float64           `json:"experience_years,omitempty"`
	Summary           string             `json:"summary,omitempty"`
	MatchedSkills     []string           `json:"matched_skills,omitempty"`
	MatchedTitles     []string           `json:"matched_titles,omitempty"`
	MatchedCompanies  []string           `json:"matched_companies,omitempty"`
	MatchedIndustries []string           `json:"matched_industries,omitempty"`
	MatchedSchools    []string           `json:"matched_schools,omitempty"`
	MatchedDegrees    []string           `json:"matched_degrees,omitempty"`
	SubMetrics        []RankingSubMetric `json:"sub_metrics,omitempty"`
	Error             string             `json:"error,omitempty"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// CompletedState builds a completed scoring state from a ranking payload.
func CompletedState(payload *RankingPayload, at time.Time) CandidateScoringState {
	total := payload.TotalScore
	return CandidateScoringState{
		Status:            ScoringCompleted,
		TotalScore:        &total,
		ExperienceYears:   payload.ExperienceYears,
		Summary:           payload.Summary,
		MatchedSkills:     payload.MatchedSkills,
		MatchedTitles:     payload.MatchedTitles,
		MatchedCompanies:  payload.MatchedCompanies,
		MatchedIndustries: payload.MatchedIndustries,
		MatchedSchools:    payload.MatchedSchools,
		MatchedDegrees:    payload.MatchedDegrees,
		SubMetrics:        payload.SubMetrics,
		UpdatedAt:         at,
	}
}
