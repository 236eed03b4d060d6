package scoring

import (
	"math"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

// MetricSpec describes one scoring category and its share of the
// 100-point rubric.
type MetricSpec struct {
	Key    string
	Label  string
	Weight int
}

// Fixed rubric used when a calibration sets no custom weights.
var defaultMetrics = []MetricSpec{
	{Key: "skills", Label: "Skill Relevance", Weight: 28},
	{Key: "titles", Label: "Title Relevance", Weight: 18},
	{Key: "work", Label: "Work Relevance", Weight: 16},
	{Key: "education", Label: "School Relevance", Weight: 10},
	{Key: "experience", Label: "Experience Relevance", Weight: 16},
	{Key: "context", Label: "JD/Ideal Candidate Relevance", Weight: 12},
}

// ResolveWeights returns the six metric specs for a calibration, in fixed
// category order, always summing to exactly 100. Custom weights are
// normalized proportionally (ties round to even) with the rounding residual added to the largest
// weight (first on ties); absent fields count as 0. When all six fields are
// absent, or the raw sum is not positive, the defaults apply.
func ResolveWeights(cal *types.Calibration) []MetricSpec {
	raw := []types.OptionalInt{
		cal.ScoringWeightSkills,
		cal.ScoringWeightTitles,
		cal.ScoringWeightWork,
		cal.ScoringWeightEducation,
		cal.ScoringWeightExperience,
		cal.ScoringWeightContext,
	}

	anySet := false
	total := 0
	values := make([]int, len(raw))
	for i, w := range raw {
		if w.Set {
			anySet = true
			values[i] = w.Value
		}
		total += values[i]
	}
	if !anySet || total <= 0 {
		out := make([]MetricSpec, len(defaultMetrics))
		copy(out, defaultMetrics)
		return out
	}

	normalized := make([]int, len(values))
	sum := 0
	for i, v := range values {
		n := int(math.RoundToEven(100 * float64(v) / float64(total)))
		if n < 0 {
			n = 0
		} else if n > 100 {
			n = 100
		}
		normalized[i] = n
		sum += n
	}
	if diff := 100 - sum; diff != 0 {
		idx := 0
		for i := 1; i < len(normalized); i++ {
			if normalized[i] > normalized[idx] {
				idx = i
			}
		}
		normalized[idx] += diff
		if normalized[idx] < 0 {
			normalized[idx] = 0
		}
	}

	out := make([]MetricSpec, len(defaultMetrics))
	for i, spec := range defaultMetrics {
		out[i] = MetricSpec{Key: spec.Key, Label: spec.Label, Weight: normalized[i]}
	}
	return out
}
