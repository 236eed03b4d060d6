package scoring

import (
	"sort"
	"strings"
)

const (
	maxContextTerms   = 15
	contextSeedSkills = 6
)

// Boilerplate tokens that dominate job descriptions without signaling
// anything about the candidate.
var contextStopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "you": {}, "that": {},
	"this": {}, "are": {}, "from": {}, "will": {}, "have": {}, "your": {},
	"our": {}, "years": {}, "experience": {}, "candidate": {}, "role": {},
	"job": {},
}

// deriveContextTerms builds the catch-all relevance term list: role tokens,
// the first six skills, the top job-description tokens and the top
// ideal-candidate tokens, de-duplicated in first-seen order and capped at
// fifteen lower-cased terms.
func deriveContextTerms(role string, skills []string, jobDescription, idealCandidate string) []string {
	var seed []string
	if role != "" {
		seed = append(seed, Tokenize(role)...)
	}
	n := len(skills)
	if n > contextSeedSkills {
		n = contextSeedSkills
	}
	for _, s := range skills[:n] {
		seed = append(seed, strings.ToLower(s))
	}
	seed = append(seed, topTokens(jobDescription, 10)...)
	seed = append(seed, topTokens(idealCandidate, 8)...)

	seen := make(map[string]struct{})
	var out []string
	for _, t := range seed {
		if len(t) <= 2 {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == maxContextTerms {
			break
		}
	}
	return out
}

// topTokens returns up to limit tokens of text ranked by frequency,
// excluding stopwords and tokens of two characters or fewer. Equal counts
// keep first-occurrence order.
func topTokens(text string, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, tok := range Tokenize(text) {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := contextStopwords[tok]; stop {
			continue
		}
		if _, ok := counts[tok]; !ok {
			order = append(order, tok)
		}
		counts[tok]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}
