// Package scoring implements the deterministic rule-based resume scoring
// engine: word-window chunking, lexical term matching, evidence retrieval,
// experience inference and weighted rubric aggregation. The engine is a
// pure function of its inputs and is safe for concurrent use.
package scoring

import (
	"regexp"
	"strings"
)

// Default chunking geometry for resume text.
const (
	defaultWordsPerChunk = 90
	defaultChunkOverlap  = 20
)

var tokenPattern = regexp.MustCompile(`[a-z0-9+#.-]+`)

// Chunk splits text into overlapping word windows of wordsPerChunk words
// advancing by wordsPerChunk-overlap (minimum step 1). The windows cover
// every word of the input; the final window may be shorter. Empty or
// whitespace-only text yields a single empty chunk, never an empty slice,
// so downstream scoring has no zero-chunk case.
func Chunk(text string, wordsPerChunk, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	step := wordsPerChunk - overlap
	if step < 1 {
		step = 1
	}
	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + wordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// Tokenize lower-cases text and extracts runs of letters, digits and the
// characters +, #, . and -, so skills like "c++", "c#" and ".net" survive
// as single tokens.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
