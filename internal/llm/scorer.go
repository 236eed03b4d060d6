package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/schemas"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

// ErrEmptyResume is returned when there is no parsed text to score.
var ErrEmptyResume = errors.New("resume text is empty")

// ModelBackedScorer scores resumes by prompting an LLM with the full
// parsed resume text and the calibration's job context. It satisfies the
// scoring.Scorer interface; callers wrap it in a fallback so rule-based
// scoring takes over when the model call fails.
type ModelBackedScorer struct {
	client Client
}

// NewModelBackedScorer wraps an LLM client in a Scorer.
func NewModelBackedScorer(client Client) *ModelBackedScorer {
	return &ModelBackedScorer{client: client}
}

// Score prompts the model and parses its JSON verdict into a ranking
// payload. Any transport failure, unparseable response or response with no
// sub-metrics is an error.
func (s *ModelBackedScorer) Score(ctx context.Context, cal *types.Calibration, resumeText string) (*types.RankingPayload, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, ErrEmptyResume
	}

	prompt := BuildScoringPrompt(cal, resumeText)
	text, err := s.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("model scoring call failed: %w", err)
	}

	data := ExtractJSON(text)
	if data == nil {
		return nil, fmt.Errorf("model response is not valid JSON")
	}
	if doc, err := json.Marshal(data); err == nil {
		if err := schemas.ValidateScoringResponse(string(doc)); err != nil {
			return nil, fmt.Errorf("model response failed schema validation: %w", err)
		}
	}
	payload := ParseScoringResponse(data)
	if payload == nil {
		return nil, fmt.Errorf("model response has no sub-metrics")
	}
	return payload, nil
}
