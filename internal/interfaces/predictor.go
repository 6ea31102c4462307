package interfaces

import (
	"context"

	"news-impact-engine/internal/types"
)

// Predictor runs the hybrid prediction pipeline over a scored article batch.
type Predictor interface {
	Predict(ctx context.Context, articles []types.ArticleSentiment) (*types.PredictionOutcome, error)
}

// Forecaster turns a verdict into a simulated forward price path.
type Forecaster interface {
	Forecast(ctx context.Context, result types.PredictionResult, currentPrice float64, horizon int, seed int64) ([]float64, error)
}
