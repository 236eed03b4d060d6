// Package types provides type definitions for structured data used throughout the RecruitOS ranking system.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CalibrationCreate is the request body for creating or updating a
// calibration (a job requisition's structured scoring requirements).
type CalibrationCreate struct {
	RequisitionName string   `json:"requisition_name" validate:"required,min=1"`
	Role            string   `json:"role" validate:"required,min=1"`
	Location        string   `json:"location"`
	JobDescription  string   `json:"job_description"`
	HiringCompany   string   `json:"hiring_company"`
	JobLocations    []string `json:"job_locations"`
	JobTitles       []string `json:"job_titles"`
	Companies       []string `json:"companies"`
	Industries      []string `json:"industries"`
	IdealCandidate  string   `json:"ideal_candidate"`
	Skills          []string `json:"skills"`

	YearsExperienceMin  OptionalInt `json:"years_experience_min"`
	YearsExperienceMax  OptionalInt `json:"years_experience_max"`
	YearsExperienceType string      `json:"years_experience_type"` // "total" | "relevant"

	SeniorityLevels   []string    `json:"seniority_levels"`
	Schools           []string    `json:"schools"`
	Degrees           []string    `json:"degrees"`
	GraduationYearMin OptionalInt `json:"graduation_year_min"`
	GraduationYearMax OptionalInt `json:"graduation_year_max"`

	RelocationAllowed  bool   `json:"relocation_allowed"`
	WorkplaceType      string `json:"workplace_type"` // Onsite | Hybrid | Remote Within Country | Remote Globally
	ExcludeShortTenure string `json:"exclude_short_tenure"`

	// Hiring pipeline stages candidates move through; the first stage is
	// assigned to new uploads. Empty means the single default stage.
	PipelineStages []string `json:"pipeline_stages"`
	// Templates are reusable requisition blueprints and are excluded from
	// the job listing.
	IsTemplate bool `json:"is_template"`

	// Optional per-category rubric weights (0-100 each). When any is set,
	// the set values are normalized to sum to 100; when all are absent the
	// fixed defaults apply.
	ScoringWeightSkills     OptionalInt `json:"scoring_weight_skills"`
	ScoringWeightTitles     OptionalInt `json:"scoring_weight_titles"`
	ScoringWeightWork       OptionalInt `json:"scoring_weight_work"`
	ScoringWeightEducation  OptionalInt `json:"scoring_weight_education"`
	ScoringWeightExperience OptionalInt `json:"scoring_weight_experience"`
	ScoringWeightContext    OptionalInt `json:"scoring_weight_context"`
}

// Calibration is a stored requisition record.
type Calibration struct {
	CalibrationCreate
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate validates the CalibrationCreate using the validator.
func (c *CalibrationCreate) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// Default experience bounds used when the calibration does not set them.
const (
	DefaultYearsExperienceMin = 0
	DefaultYearsExperienceMax = 30
)

// FirstStage returns the stage assigned to newly uploaded candidates.
func (c *CalibrationCreate) FirstStage() string {
	if len(c.PipelineStages) > 0 {
		return c.PipelineStages[0]
	}
	return DefaultPipelineStage
}

// ExperienceBounds returns the normalized [min, max] experience band,
// applying the defaults for unset fields and swapping an inverted pair.
func (c *CalibrationCreate) ExperienceBounds() (lo, hi int) {
	lo = c.YearsExperienceMin.Or(DefaultYearsExperienceMin)
	hi = c.YearsExperienceMax.Or(DefaultYearsExperienceMax)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}
