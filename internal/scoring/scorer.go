package scoring

import (
	"context"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

// Scorer produces a ranking payload for one candidate resume against one
// calibration.
type Scorer interface {
	Score(ctx context.Context, cal *types.Calibration, resumeText string) (*types.RankingPayload, error)
}

// RuleBasedScorer is the deterministic lexical engine. It needs no network
// or model access and never fails on well-formed input, which makes it the
// always-available default.
type RuleBasedScorer struct{}

// NewRuleBasedScorer returns the rule-based engine as a Scorer.
func NewRuleBasedScorer() *RuleBasedScorer {
	return &RuleBasedScorer{}
}

// Score implements Scorer.
func (s *RuleBasedScorer) Score(_ context.Context, cal *types.Calibration, resumeText string) (*types.RankingPayload, error) {
	return ScoreResume(cal, resumeText), nil
}

// FallbackScorer tries a primary scorer and falls back to a secondary when
// the primary errors or returns nothing. The surrounding service uses a
// model-backed primary with the rule-based engine as fallback.
type FallbackScorer struct {
	Primary  Scorer
	Fallback Scorer
}

// Score implements Scorer.
func (s *FallbackScorer) Score(ctx context.Context, cal *types.Calibration, resumeText string) (*types.RankingPayload, error) {
	if s.Primary != nil {
		if payload, err := s.Primary.Score(ctx, cal, resumeText); err == nil && payload != nil {
			return payload, nil
		}
	}
	return s.Fallback.Score(ctx, cal, resumeText)
}
