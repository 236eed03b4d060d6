package llm

import (
	"fmt"
	"strings"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

// Prompt size caps keep job context well inside model limits while the
// full resume text is always passed untruncated.
const (
	promptMaxJDChars  = 4000
	promptMaxSkills   = 20
	promptMaxTitles   = 15
	promptMaxPerGroup = 10
)

const scoringPromptHeader = `You are an expert recruiter. Score this candidate's resume against the job requirements below. Return exactly one JSON object, no other text.

Required JSON shape:
{
  "total_score": <0-100 integer>,
  "experience_years": <number or null>,
  "summary": "<1-2 sentence summary>",
  "matched_skills": ["<skill from resume that matches>", ...],
  "matched_titles": ["<title from resume that matches>", ...],
  "matched_companies": ["<company from resume>", ...],
  "matched_industries": ["<industry from resume>", ...],
  "matched_schools": ["<school from resume>", ...],
  "matched_degrees": ["<degree from resume>", ...],
  "sub_metrics": [
    { "key": "skills", "label": "Skill Relevance", "rating": <1-5>, "points_earned": <int>, "points_possible": <int>, "matched_terms": [], "evidence": [], "rationale": "<short reason>" },
    { "key": "titles", "label": "Title Relevance", "rating": <1-5>, "points_earned": <int>, "points_possible": <int>, "matched_terms": [], "evidence": [], "rationale": "<short reason>" },
    { "key": "work", "label": "Work Relevance", "rating": <1-5>, "points_earned": <int>, "points_possible": <int>, "matched_terms": [], "evidence": [], "rationale": "<short reason>" },
    { "key": "education", "label": "School Relevance", "rating": <1-5>, "points_earned": <int>, "points_possible": <int>, "matched_terms": [], "evidence": [], "rationale": "<short reason>" },
    { "key": "experience", "label": "Experience Relevance", "rating": <1-5>, "points_earned": <int>, "points_possible": <int>, "matched_terms": [], "evidence": [], "rationale": "<short reason>" },
    { "key": "context", "label": "JD/Ideal Candidate Relevance", "rating": <1-5>, "points_earned": <int>, "points_possible": <int>, "matched_terms": [], "evidence": [], "rationale": "<short reason>" }
  ]
}
Use points_possible: 28 skills, 18 titles, 16 work, 10 education, 16 experience, 12 context. Ensure sub_metrics sum to total_score and ratings are 1-5.
Experience: experience_years must be WORK experience only (exclude education). If not stated explicitly, infer from employment section dates only (e.g. Jan 2022 – Dec 2023 = 2 years). Do not count education dates.`

// BuildScoringPrompt assembles the scoring prompt: instructions, the
// required response shape, capped job context and the full resume text.
func BuildScoringPrompt(cal *types.Calibration, resumeText string) string {
	role := strings.TrimSpace(cal.Role)
	jd := strings.TrimSpace(cal.IdealCandidate)
	if jd == "" {
		jd = strings.TrimSpace(cal.JobDescription)
	}

	jobContext := fmt.Sprintf(`Role: %s
Job description / ideal candidate: %s
Preferred skills: %s
Relevant job titles: %s
Companies/industries: %s
Schools/degrees: %s
Years of experience range: %d–%d`,
		orDefault(role, "Not specified"),
		orDefault(truncateChars(jd, promptMaxJDChars), "Not specified"),
		orDefault(joinCapped(cal.Skills, promptMaxSkills), "None"),
		orDefault(joinCapped(cal.JobTitles, promptMaxTitles), "None"),
		orDefault(joinGroups(cal.Companies, cal.Industries), "None"),
		orDefault(joinGroups(cal.Schools, cal.Degrees), "None"),
		cal.YearsExperienceMin.Or(types.DefaultYearsExperienceMin),
		cal.YearsExperienceMax.Or(types.DefaultYearsExperienceMax),
	)

	return fmt.Sprintf("%s\n\n--- JOB CONTEXT ---\n%s\n\n--- FULL RESUME (use the entire text for scoring) ---\n%s\n",
		scoringPromptHeader, jobContext, resumeText)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func truncateChars(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func joinCapped(values []string, limit int) string {
	if len(values) > limit {
		values = values[:limit]
	}
	return strings.Join(values, ", ")
}

func joinGroups(a, b []string) string {
	merged := append(capGroup(a), capGroup(b)...)
	return strings.Join(merged, ", ")
}

func capGroup(values []string) []string {
	if len(values) > promptMaxPerGroup {
		values = values[:promptMaxPerGroup]
	}
	return append([]string{}, values...)
}
