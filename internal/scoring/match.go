package scoring

import (
	"regexp"
	"strings"
)

// matchTerms returns the subset of terms found in the joined chunk text,
// case-insensitively and at word boundaries; multi-word terms must appear
// as a contiguous phrase. Order and original casing are preserved and blank
// terms are skipped.
func matchTerms(chunks, terms []string) []string {
	hay := strings.ToLower(strings.Join(chunks, " "))
	var matched []string
	for _, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" {
			continue
		}
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)
		if pattern.MatchString(hay) {
			matched = append(matched, term)
		}
	}
	return matched
}

// ratioToRating maps the matched/total term ratio onto the 1-5 scale.
func ratioToRating(ratio float64) int {
	switch {
	case ratio >= 0.9:
		return 5
	case ratio >= 0.65:
		return 4
	case ratio >= 0.4:
		return 3
	case ratio >= 0.2:
		return 2
	default:
		return 1
	}
}

// scoreTermMetric scores one term-list category. An empty term list is not
// penalized: it yields no matches, no evidence and a neutral rating of 3.
// Evidence retrieval queries the matched terms, falling back to the full
// target list when nothing matched so snippets can still be produced.
func scoreTermMetric(chunks, terms []string, key string) (matched, evidence []string, rating int) {
	if len(terms) == 0 {
		return nil, nil, 3
	}
	matched = matchTerms(chunks, terms)
	rating = ratioToRating(float64(len(matched)) / float64(len(terms)))
	query := matched
	if len(query) == 0 {
		query = terms
	}
	evidence = retrieveEvidence(chunks, query, key)
	return matched, evidence, rating
}
