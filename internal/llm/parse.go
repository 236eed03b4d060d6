package llm

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

var fencedBlockPattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ExtractJSON pulls the JSON object out of a model response, unwrapping a
// markdown code block when present. Returns nil when no valid JSON object
// can be decoded.
func ExtractJSON(text string) map[string]any {
	text = strings.TrimSpace(text)
	jsonStr := text
	if strings.Contains(text, "```") {
		if m := fencedBlockPattern.FindStringSubmatch(text); m != nil {
			jsonStr = strings.TrimSpace(m[1])
		}
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return nil
	}
	return data
}

// ParseScoringResponse builds a RankingPayload from the model's decoded
// JSON, coercing and clamping every field so a sloppy response still yields
// a usable payload. Returns nil when the response has no sub-metrics at
// all, which callers treat as a failed scoring attempt.
func ParseScoringResponse(data map[string]any) *types.RankingPayload {
	totalScore := coerceInt(data["total_score"], 0)
	if totalScore < 0 {
		totalScore = 0
	} else if totalScore > 100 {
		totalScore = 100
	}

	var experienceYears *float64
	if v, ok := coerceFloat(data["experience_years"]); ok {
		experienceYears = &v
	}

	summary := strings.TrimSpace(coerceString(data["summary"]))
	if summary == "" {
		summary = "Overall candidate match " + strconv.Itoa(totalScore) + "%."
	}

	var subMetrics []types.RankingSubMetric
	if raw, ok := data["sub_metrics"].([]any); ok {
		for _, item := range raw {
			sm, ok := item.(map[string]any)
			if !ok {
				continue
			}
			key := strings.TrimSpace(coerceString(sm["key"]))
			if key == "" {
				key = "context"
			}
			label := coerceString(sm["label"])
			if label == "" {
				label = key
			}
			rating := coerceInt(sm["rating"], 3)
			if rating < 1 {
				rating = 1
			} else if rating > 5 {
				rating = 5
			}
			earned := coerceInt(sm["points_earned"], 0)
			if earned < 0 {
				earned = 0
			}
			possible := coerceInt(sm["points_possible"], 1)
			if possible < 1 {
				possible = 1
			}
			subMetrics = append(subMetrics, types.RankingSubMetric{
				Key:            key,
				Label:          label,
				Rating:         rating,
				PointsEarned:   earned,
				PointsPossible: possible,
				MatchedTerms:   coerceStringList(sm["matched_terms"]),
				Evidence:       coerceStringList(sm["evidence"]),
				Rationale:      strings.TrimSpace(coerceString(sm["rationale"])),
			})
		}
	}
	if len(subMetrics) == 0 {
		return nil
	}

	return &types.RankingPayload{
		TotalScore:        totalScore,
		ExperienceYears:   experienceYears,
		Summary:           summary,
		MatchedSkills:     coerceStringList(data["matched_skills"]),
		MatchedTitles:     coerceStringList(data["matched_titles"]),
		MatchedCompanies:  coerceStringList(data["matched_companies"]),
		MatchedIndustries: coerceStringList(data["matched_industries"]),
		MatchedSchools:    coerceStringList(data["matched_schools"]),
		MatchedDegrees:    coerceStringList(data["matched_degrees"]),
		SubMetrics:        subMetrics,
	}
}

// coerceInt converts a decoded JSON value to an int, truncating numbers
// and parsing integer strings. Anything else yields the default.
func coerceInt(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	case bool:
		if n {
			return 1
		}
		return 0
	}
	return def
}

func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	}
	return ""
}

// coerceStringList keeps the non-blank entries of a JSON array, trimmed.
func coerceStringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		s := strings.TrimSpace(coerceString(item))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
