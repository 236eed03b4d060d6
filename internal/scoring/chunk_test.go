package scoring

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_EmptyTextYieldsSingleEmptyChunk(t *testing.T) {
	assert.Equal(t, []string{""}, Chunk("", 90, 20))
	assert.Equal(t, []string{""}, Chunk("   \n\t  ", 90, 20))
}

func TestChunk_ShortTextIsOneChunk(t *testing.T) {
	chunks := Chunk("alpha beta gamma", 90, 20)
	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta gamma", chunks[0])
}

func TestChunk_WindowsOverlapAndCoverEveryWord(t *testing.T) {
	words := make([]string, 250)
	for i := range words {
		words[i] = "word" + strconv.Itoa(i)
	}
	text := strings.Join(words, " ")

	chunks := Chunk(text, 90, 20)
	require.Greater(t, len(chunks), 1)

	// Every input word must appear in at least one chunk.
	covered := make(map[string]bool)
	for _, c := range chunks {
		for _, w := range strings.Fields(c) {
			covered[w] = true
		}
	}
	for _, w := range words {
		assert.True(t, covered[w], "word %q missing from chunks", w)
	}

	// Step is words_per_chunk - overlap: second chunk starts at word 70.
	assert.True(t, strings.HasPrefix(chunks[1], words[70]))
}

func TestChunk_StepNeverBelowOne(t *testing.T) {
	chunks := Chunk("a b c", 2, 5)
	// Degenerate overlap still advances one word per chunk.
	assert.Equal(t, []string{"a b", "b c", "c"}, chunks)
}

func TestTokenize_KeepsSymbolHeavySkills(t *testing.T) {
	tokens := Tokenize("C++ and C# plus .NET, Node.js!")
	assert.Equal(t, []string{"c++", "and", "c#", "plus", ".net", "node.js"}, tokens)
}

func TestTokenize_LowercasesEverything(t *testing.T) {
	assert.Equal(t, []string{"python", "sql"}, Tokenize("Python SQL"))
}

