package ml

import (
	"context"
	"fmt"

	"news-impact-engine/internal/types"
)

// Predictor scores article batches against a trained artifact. It is
// stateless; the artifact travels in on each call so callers can hot-swap
// models without coordinating with in-flight predictions.
type Predictor struct{}

func NewPredictor() *Predictor {
	return &Predictor{}
}

// Predict averages per-article class probability vectors and maps the top
// class back to its label. A nil artifact or empty batch yields (nil, nil):
// the model is simply unavailable, which is not an error.
func (p *Predictor) Predict(ctx context.Context, artifact *Artifact, articles []types.ArticleSentiment) (*types.PredictionResult, error) {
	if artifact == nil || len(articles) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	avg := make([]float64, len(artifact.Labels))
	for _, art := range articles {
		probs := artifact.probabilities(artifact.Extractor.ArticleVector(art, len(articles)))
		for c, pr := range probs {
			avg[c] += pr
		}
	}
	for c := range avg {
		avg[c] /= float64(len(articles))
	}

	best := argmax(avg)
	label := artifact.Labels[best]
	if !label.Valid() {
		return nil, fmt.Errorf("model artifact %s references unknown label %q", artifact.ID, label)
	}

	score := 0.0
	for c, pr := range avg {
		score += pr * artifact.Labels[c].Score()
	}

	return &types.PredictionResult{
		Prediction: label,
		Confidence: avg[best],
		Score:      score,
		Reasoning: fmt.Sprintf("ML model prediction based on %d articles. Model confidence: %.1f%%",
			len(articles), avg[best]*100),
		Source: types.SourceML,
	}, nil
}
