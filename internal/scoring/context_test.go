package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveContextTerms_SeedsRoleAndSkills(t *testing.T) {
	terms := deriveContextTerms("Data Analyst", []string{"Python", "SQL"}, "", "")
	assert.Equal(t, []string{"data", "analyst", "python", "sql"}, terms)
}

func TestDeriveContextTerms_CapsSeedSkillsAtSix(t *testing.T) {
	skills := []string{"one1", "two2", "three", "four", "five", "sixth", "seventh"}
	terms := deriveContextTerms("", skills, "", "")
	assert.NotContains(t, terms, "seventh")
	assert.Contains(t, terms, "sixth")
}

func TestDeriveContextTerms_DropsShortAndDuplicateTokens(t *testing.T) {
	terms := deriveContextTerms("Go Engineer", []string{"go", "engineer", "grpc"}, "", "")
	// "go" is two characters and dropped; "engineer" appears once.
	assert.Equal(t, []string{"engineer", "grpc"}, terms)
}

func TestDeriveContextTerms_CapsAtFifteen(t *testing.T) {
	words := []string{
		"alpha", "bravo", "charlie", "delta", "echoes", "foxtrot", "golfing",
		"hotels", "india", "juliet",
	}
	skills := []string{"python", "sql", "spark", "airflow", "kafka", "tableau"}
	terms := deriveContextTerms("Principal Data Platform Engineer", skills, strings.Join(words, " "), "")
	assert.Len(t, terms, 15)
}

func TestTopTokens_RanksByFrequency(t *testing.T) {
	text := "pipeline pipeline pipeline dashboard dashboard warehouse"
	assert.Equal(t, []string{"pipeline", "dashboard", "warehouse"}, topTokens(text, 10))
}

func TestTopTokens_ExcludesStopwordsAndShortTokens(t *testing.T) {
	text := "the candidate will have years of experience with go and sql pipelines"
	toks := topTokens(text, 10)
	assert.NotContains(t, toks, "the")
	assert.NotContains(t, toks, "experience")
	assert.NotContains(t, toks, "go")
	assert.Contains(t, toks, "sql")
	assert.Contains(t, toks, "pipelines")
}

func TestTopTokens_TiesKeepFirstOccurrenceOrder(t *testing.T) {
	text := "warehouse dashboard warehouse dashboard pipeline"
	assert.Equal(t, []string{"warehouse", "dashboard", "pipeline"}, topTokens(text, 3))
}
