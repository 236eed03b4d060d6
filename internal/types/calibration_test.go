package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrationCreate_Validate(t *testing.T) {
	valid := &CalibrationCreate{RequisitionName: "Data Analyst 2026", Role: "Data Analyst"}
	assert.NoError(t, valid.Validate())

	missingRole := &CalibrationCreate{RequisitionName: "Data Analyst 2026"}
	assert.Error(t, missingRole.Validate())

	missingName := &CalibrationCreate{Role: "Data Analyst"}
	assert.Error(t, missingName.Validate())
}

func TestCalibrationCreate_ExperienceBounds(t *testing.T) {
	var c CalibrationCreate
	lo, hi := c.ExperienceBounds()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 30, hi)

	c.YearsExperienceMin = NewOptionalInt(8)
	c.YearsExperienceMax = NewOptionalInt(3)
	lo, hi = c.ExperienceBounds()
	assert.Equal(t, 3, lo)
	assert.Equal(t, 8, hi)
}

func TestCalibrationCreate_FirstStage(t *testing.T) {
	var c CalibrationCreate
	assert.Equal(t, "Applied", c.FirstStage())

	c.PipelineStages = []string{"Screen", "Interview", "Offer"}
	assert.Equal(t, "Screen", c.FirstStage())
}

func TestCalibrationCreate_DecodeTolerantWeights(t *testing.T) {
	body := `{
		"requisition_name": "Req",
		"role": "Analyst",
		"years_experience_min": "2",
		"years_experience_max": 5.7,
		"scoring_weight_skills": null,
		"scoring_weight_titles": "oops"
	}`
	var c CalibrationCreate
	require.NoError(t, json.Unmarshal([]byte(body), &c))
	assert.Equal(t, 2, c.YearsExperienceMin.Or(-1))
	assert.Equal(t, 5, c.YearsExperienceMax.Or(-1))
	assert.False(t, c.ScoringWeightSkills.Set)
	assert.False(t, c.ScoringWeightTitles.Set)
}
