package scoring

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const (
	maxEvidenceSnippets = 3
	evidenceSnippetLen  = 220
	phraseBonus         = 0.15
	phraseBonusTerms    = 8
)

// retrieveEvidence ranks chunks by lexical overlap with the query terms and
// returns up to three prefixed snippet strings. A chunk's score is the
// fraction of its tokens present in the query token set, plus a bonus for
// each of the first eight terms it contains as a literal substring.
// Zero-score chunks are excluded; ties keep original chunk order.
func retrieveEvidence(chunks, terms []string, key string) []string {
	if len(chunks) == 0 {
		return nil
	}
	querySet := make(map[string]struct{})
	for _, tok := range Tokenize(strings.Join(terms, " ")) {
		querySet[tok] = struct{}{}
	}

	type scoredChunk struct {
		score float64
		text  string
	}
	var ranked []scoredChunk
	for _, chunk := range chunks {
		tokens := Tokenize(chunk)
		if len(tokens) == 0 {
			continue
		}
		overlap := 0
		for _, tok := range tokens {
			if _, ok := querySet[tok]; ok {
				overlap++
			}
		}
		score := float64(overlap) / float64(len(tokens))

		lowerChunk := strings.ToLower(chunk)
		bonusTerms := terms
		if len(bonusTerms) > phraseBonusTerms {
			bonusTerms = bonusTerms[:phraseBonusTerms]
		}
		for _, term := range bonusTerms {
			t := strings.ToLower(term)
			if t != "" && strings.Contains(lowerChunk, t) {
				score += phraseBonus
			}
		}
		if score > 0 {
			ranked = append(ranked, scoredChunk{score: score, text: strings.TrimSpace(chunk)})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > maxEvidenceSnippets {
		ranked = ranked[:maxEvidenceSnippets]
	}

	snippets := make([]string, 0, len(ranked))
	for _, rc := range ranked {
		snippets = append(snippets, fmt.Sprintf("%s evidence: %s", titleKey(key), truncateRunes(rc.text, evidenceSnippetLen)))
	}
	return snippets
}

// titleKey capitalizes a single-word category key for snippet prefixes.
func titleKey(key string) string {
	if key == "" {
		return ""
	}
	r := []rune(key)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
