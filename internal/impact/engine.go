package impact

import (
	"context"
	"sync/atomic"

	"news-impact-engine/internal/logger"
	"news-impact-engine/internal/ml"
	"news-impact-engine/internal/types"
)

// Engine is the hybrid prediction pipeline: rule-based aggregation always
// runs, the ML stage runs when an artifact is loaded, and the combiner
// fuses the two. The artifact handle is swapped atomically so retraining
// never stalls in-flight predictions.
type Engine struct {
	aggregator *Aggregator
	predictor  *ml.Predictor
	simulator  *Simulator

	artifact atomic.Pointer[ml.Artifact]
}

func NewEngine() *Engine {
	return &Engine{
		aggregator: NewAggregator(),
		predictor:  ml.NewPredictor(),
		simulator:  NewSimulator(),
	}
}

// SetArtifact publishes a trained model to the pipeline. A nil artifact
// switches the engine back to rule-only operation.
func (e *Engine) SetArtifact(a *ml.Artifact) {
	e.artifact.Store(a)
}

// Artifact returns the currently published model, or nil.
func (e *Engine) Artifact() *ml.Artifact {
	return e.artifact.Load()
}

// Predict runs the full pipeline. ML failures degrade to rule-only output
// rather than failing the prediction; the error is logged and the combiner
// sees the model as unavailable.
func (e *Engine) Predict(ctx context.Context, articles []types.ArticleSentiment) (*types.PredictionOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dist, rule := e.aggregator.Aggregate(ctx, articles)

	mlResult, err := e.predictor.Predict(ctx, e.artifact.Load(), articles)
	if err != nil {
		logger.ErrorWithErr(ctx, "ML prediction failed, continuing rule-only", err)
		mlResult = nil
	}

	combined := Combine(rule, mlResult)
	logger.Verdict(ctx, string(combined.Prediction), combined.Confidence, combined.Score, string(combined.Source),
		"articles", len(articles))

	return &types.PredictionOutcome{
		RuleBased:    rule,
		ML:           mlResult,
		Combined:     combined,
		Distribution: dist,
	}, nil
}

// Forecast simulates a forward price path from a verdict.
func (e *Engine) Forecast(ctx context.Context, result types.PredictionResult, currentPrice float64, horizon int, seed int64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.simulator.Simulate(result, currentPrice, horizon, seed)
}
