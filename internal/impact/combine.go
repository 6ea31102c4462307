package impact

import (
	"fmt"
	"math"

	"news-impact-engine/internal/types"
)

// agreementBonus is added to the combined confidence when both sources point
// the same direction, and subtracted on a strict sign disagreement. Capped at
// 1.0 and floored at 0 respectively.
const agreementBonus = 0.10

// Combine fuses the rule-based verdict with an optional ML verdict into the
// final combined result. With ml nil the rule-based verdict passes through
// unchanged apart from an amended reasoning. The fusion is stateless:
// identical inputs always produce identical output.
func Combine(rule types.PredictionResult, ml *types.PredictionResult) types.PredictionResult {
	if ml == nil {
		out := rule
		out.Source = types.SourceCombined
		out.Reasoning = rule.Reasoning + " (ML model not available or not trained)"
		return out
	}

	denom := rule.Confidence + ml.Confidence
	if denom == 0 {
		out := rule
		out.Source = types.SourceCombined
		out.Reasoning = rule.Reasoning + " (both sources reported zero confidence; rule-based result retained)"
		return out
	}

	score := (rule.Score*rule.Confidence + ml.Score*ml.Confidence) / denom
	prediction := types.LabelForScore(score)

	confidence := (rule.Confidence + ml.Confidence) / 2
	agree := sameDirection(rule.Score, ml.Score)
	disagree := oppositeDirection(rule.Score, ml.Score)
	switch {
	case agree:
		confidence = math.Min(1.0, confidence+agreementBonus)
	case disagree:
		confidence = math.Max(0, confidence-agreementBonus)
	}

	outcome := "sources agree on direction"
	if disagree {
		outcome = "sources DISAGREE on direction"
	} else if !agree {
		outcome = "one source is directionally neutral"
	}

	reasoning := fmt.Sprintf(
		"Combined verdict from rule-based analysis (%s, %.0f%% confidence) and ML model (%s, %.0f%% confidence); %s. Combined result: %s.",
		rule.Prediction.Display(), rule.Confidence*100,
		ml.Prediction.Display(), ml.Confidence*100,
		outcome, prediction.Display(),
	)

	return types.PredictionResult{
		Prediction: prediction,
		Confidence: confidence,
		Score:      score,
		Reasoning:  reasoning,
		Source:     types.SourceCombined,
	}
}

func sameDirection(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

func oppositeDirection(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}
