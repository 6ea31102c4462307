package ml

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-impact-engine/internal/types"
)

func TestPredictUnavailableWithoutArtifact(t *testing.T) {
	p := NewPredictor()
	res, err := p.Predict(context.Background(), nil, []types.ArticleSentiment{
		{Label: types.SlightlyPositive, Confidence: 0.5, Text: "some news"},
	})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestPredictUnavailableOnEmptyBatch(t *testing.T) {
	p := NewPredictor()
	res, err := p.Predict(context.Background(), trainedArtifact(t), nil)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestPredictSeparatesClasses(t *testing.T) {
	artifact := trainedArtifact(t)
	p := NewPredictor()

	res, err := p.Predict(context.Background(), artifact, []types.ArticleSentiment{
		{Label: types.StronglyPositive, Confidence: 0.9, Text: "profits surge on record growth this quarter"},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, types.StronglyPositive, res.Prediction)
	assert.Equal(t, types.SourceML, res.Source)
	assert.Greater(t, res.Confidence, 0.5)
	assert.Greater(t, res.Score, 0.0)
	assert.Contains(t, res.Reasoning, "ML model prediction based on 1 articles")

	res, err = p.Predict(context.Background(), artifact, []types.ArticleSentiment{
		{Label: types.StronglyNegative, Confidence: 0.9, Text: "shares crash after heavy loss warning"},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, types.StronglyNegative, res.Prediction)
	assert.Less(t, res.Score, 0.0)
}

func TestPredictAveragesBatch(t *testing.T) {
	artifact := trainedArtifact(t)
	p := NewPredictor()

	res, err := p.Predict(context.Background(), artifact, []types.ArticleSentiment{
		{Label: types.StronglyPositive, Confidence: 0.9, Text: "profits surge on record growth"},
		{Label: types.StronglyNegative, Confidence: 0.9, Text: "shares crash after heavy loss"},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	// Balanced evidence keeps the ensemble score away from the extremes.
	assert.Greater(t, res.Score, -2.5)
	assert.Less(t, res.Score, 2.5)
}

func TestPredictScoreWithinLabelRange(t *testing.T) {
	artifact := trainedArtifact(t)
	p := NewPredictor()

	res, err := p.Predict(context.Background(), artifact, []types.ArticleSentiment{
		{Label: types.Neutral, Confidence: 0.1, Text: "nothing noteworthy happened today"},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.GreaterOrEqual(t, res.Score, -3.0)
	assert.LessOrEqual(t, res.Score, 3.0)
	assert.True(t, res.Prediction.Valid())
}

func TestPredictHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPredictor()
	_, err := p.Predict(ctx, trainedArtifact(t), []types.ArticleSentiment{
		{Label: types.SlightlyPositive, Confidence: 0.5, Text: "news"},
	})
	assert.Error(t, err)
}
