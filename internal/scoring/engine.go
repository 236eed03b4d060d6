package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

// ScoreResume runs the full rule-based rubric for one resume against one
// calibration and returns the explainable ranking payload. It allocates
// only local data and never fails: sparse or empty inputs degrade to
// neutral ratings instead of errors.
func ScoreResume(cal *types.Calibration, resumeText string) *types.RankingPayload {
	chunks := Chunk(resumeText, defaultWordsPerChunk, defaultChunkOverlap)

	role := strings.TrimSpace(cal.Role)
	skills := cleanTerms(cal.Skills)
	titles := cleanTerms(cal.JobTitles)
	if len(titles) == 0 && role != "" {
		titles = []string{role}
	}
	companies := cleanTerms(cal.Companies)
	industries := cleanTerms(cal.Industries)
	schools := cleanTerms(cal.Schools)
	degrees := cleanTerms(cal.Degrees)

	matchedSkills, skillsEv, skillsRating := scoreTermMetric(chunks, skills, "skills")
	matchedTitles, titlesEv, titleRating := scoreTermMetric(chunks, titles, "titles")

	workTerms := append(append([]string{}, companies...), termsNotIn(industries, companies)...)
	matchedWork, workEv, workRating := scoreTermMetric(chunks, workTerms, "work")

	matchedSchools, schoolEv, schoolRating := scoreTermMetric(chunks, schools, "schools")
	matchedDegrees, degreeEv, degreeRating := scoreTermMetric(chunks, degrees, "degrees")

	lo, hi := cal.ExperienceBounds()
	expYears, expEv, expRating := scoreExperience(chunks, lo, hi)

	contextTerms := deriveContextTerms(role, skills, cal.JobDescription, cal.IdealCandidate)
	_, contextEv, contextRating := scoreTermMetric(chunks, contextTerms, "context")

	educationRating := schoolRating
	if degreeRating > educationRating {
		educationRating = degreeRating
	}

	ratings := map[string]int{
		"skills":     skillsRating,
		"titles":     titleRating,
		"work":       workRating,
		"education":  educationRating,
		"experience": expRating,
		"context":    contextRating,
	}
	evidence := map[string][]string{
		"skills":     skillsEv,
		"titles":     titlesEv,
		"work":       workEv,
		"education":  appendMissing(schoolEv, degreeEv),
		"experience": expEv,
		"context":    contextEv,
	}

	var expTerms []string
	if expYears != nil {
		expTerms = []string{fmt.Sprintf("%g years", *expYears)}
	}
	contextHighlights := contextTerms
	if len(contextHighlights) > 4 {
		contextHighlights = contextHighlights[:4]
	}
	matchedTerms := map[string][]string{
		"skills":     matchedSkills,
		"titles":     matchedTitles,
		"work":       matchedWork,
		"education":  appendMissing(matchedSchools, matchedDegrees),
		"experience": expTerms,
		"context":    contextHighlights,
	}

	totalPoints := 0
	specs := ResolveWeights(cal)
	subMetrics := make([]types.RankingSubMetric, 0, len(specs))
	for _, spec := range specs {
		rating := ratings[spec.Key]
		earned := int(math.Round(float64(rating) / 5 * float64(spec.Weight)))
		totalPoints += earned

		ev := evidence[spec.Key]
		if len(ev) > maxEvidenceSnippets {
			ev = ev[:maxEvidenceSnippets]
		}
		subMetrics = append(subMetrics, types.RankingSubMetric{
			Key:            spec.Key,
			Label:          spec.Label,
			Rating:         rating,
			PointsEarned:   earned,
			PointsPossible: spec.Weight,
			MatchedTerms:   matchedTerms[spec.Key],
			Evidence:       ev,
			Rationale:      buildRationale(spec.Key, rating, matchedTerms[spec.Key], spec.Weight),
		})
	}

	totalScore := totalPoints
	if totalScore < 0 {
		totalScore = 0
	} else if totalScore > 100 {
		totalScore = 100
	}

	workCompanies := termsIn(matchedWork, companies)
	workIndustries := termsIn(matchedWork, industries)

	return &types.RankingPayload{
		TotalScore:        totalScore,
		ExperienceYears:   expYears,
		Summary:           buildSummary(totalScore, matchedSkills, matchedTitles, workCompanies, expYears),
		MatchedSkills:     matchedSkills,
		MatchedTitles:     matchedTitles,
		MatchedCompanies:  workCompanies,
		MatchedIndustries: workIndustries,
		MatchedSchools:    matchedSchools,
		MatchedDegrees:    matchedDegrees,
		SubMetrics:        subMetrics,
	}
}

// cleanTerms trims terms, drops blanks and de-duplicates
// case-insensitively, keeping the first occurrence's casing.
func cleanTerms(values []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, raw := range values {
		term := strings.TrimSpace(raw)
		if term == "" {
			continue
		}
		key := strings.ToLower(term)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, term)
	}
	return out
}

// termsNotIn returns the terms of a absent from b, case-insensitively.
func termsNotIn(a, b []string) []string {
	exclude := lowerSet(b)
	var out []string
	for _, t := range a {
		if _, ok := exclude[strings.ToLower(t)]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// termsIn returns the terms of a present in b, case-insensitively.
func termsIn(a, b []string) []string {
	include := lowerSet(b)
	var out []string
	for _, t := range a {
		if _, ok := include[strings.ToLower(t)]; ok {
			out = append(out, t)
		}
	}
	return out
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

// appendMissing concatenates a with the entries of b not already present
// in a (exact comparison).
func appendMissing(a, b []string) []string {
	out := append([]string{}, a...)
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := seen[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// buildRationale produces the one-sentence explanation attached to a
// sub-metric.
func buildRationale(key string, rating int, matched []string, pointsPossible int) string {
	if len(matched) == 0 && key != "experience" {
		return fmt.Sprintf("Limited direct evidence found in parsed resume text. %d/5 for this criterion.", rating)
	}
	if key == "experience" {
		if len(matched) > 0 {
			return fmt.Sprintf("Detected %s against target experience band. %d/5.", matched[0], rating)
		}
		return fmt.Sprintf("Unable to confidently extract years of experience. %d/5.", rating)
	}
	earned := int(math.Round(float64(rating) / 5 * float64(pointsPossible)))
	plural := "s"
	if len(matched) == 1 {
		plural = ""
	}
	return fmt.Sprintf("Matched %d signal term%s; awarded %d/%d points.", len(matched), plural, earned, pointsPossible)
}

// buildSummary joins the match highlights into the overall one-line
// summary, with a generic fallback when nothing matched at all.
func buildSummary(totalScore int, matchedSkills, matchedTitles, matchedCompanies []string, expYears *float64) string {
	var highlights []string
	if n := len(matchedSkills); n > 0 {
		highlights = append(highlights, fmt.Sprintf("%d skill match%s", n, pluralES(n)))
	}
	if n := len(matchedTitles); n > 0 {
		highlights = append(highlights, fmt.Sprintf("%d title match%s", n, pluralES(n)))
	}
	if n := len(matchedCompanies); n > 0 {
		highlights = append(highlights, fmt.Sprintf("%d company match%s", n, pluralES(n)))
	}
	if expYears != nil {
		highlights = append(highlights, fmt.Sprintf("%g years experience detected", *expYears))
	}
	if len(highlights) == 0 {
		return fmt.Sprintf("Overall candidate match %d%% using resume-to-requisition retrieval scoring.", totalScore)
	}
	return fmt.Sprintf("%s. Overall candidate match %d%%.", strings.Join(highlights, ", "), totalScore)
}

func pluralES(n int) string {
	if n == 1 {
		return ""
	}
	return "es"
}
