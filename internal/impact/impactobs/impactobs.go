package impactobs

import (
	"context"
	"time"

	"news-impact-engine/internal/interfaces"
	"news-impact-engine/internal/logger"
	"news-impact-engine/internal/trace"
	"news-impact-engine/internal/types"
)

type observablePredictor struct {
	predictor interfaces.Predictor
}

var _ interfaces.Predictor = (*observablePredictor)(nil)

func WrapPredictor(p interfaces.Predictor) interfaces.Predictor {
	return &observablePredictor{
		predictor: p,
	}
}

func (op *observablePredictor) Predict(ctx context.Context, articles []types.ArticleSentiment) (*types.PredictionOutcome, error) {
	ctx, span := trace.StartSpan(ctx, "impact.Predict")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting impact prediction",
		"articles", len(articles),
	)

	outcome, err := op.predictor.Predict(ctx, articles)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Impact prediction failed", err,
			"articles", len(articles),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Impact prediction completed",
		"articles", len(articles),
		"prediction", outcome.Combined.Prediction,
		"confidence", outcome.Combined.Confidence,
		"source", outcome.Combined.Source,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return outcome, nil
}

type observableForecaster struct {
	forecaster interfaces.Forecaster
}

var _ interfaces.Forecaster = (*observableForecaster)(nil)

func WrapForecaster(f interfaces.Forecaster) interfaces.Forecaster {
	return &observableForecaster{
		forecaster: f,
	}
}

func (of *observableForecaster) Forecast(ctx context.Context, result types.PredictionResult, currentPrice float64, horizon int, seed int64) ([]float64, error) {
	ctx, span := trace.StartSpan(ctx, "impact.Forecast")
	defer span.End()

	start := time.Now()

	path, err := of.forecaster.Forecast(ctx, result, currentPrice, horizon, seed)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Price path simulation failed", err,
			"current_price", currentPrice,
			"horizon", horizon,
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Price path simulated",
		"current_price", currentPrice,
		"horizon", horizon,
		"steps", len(path),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return path, nil
}
