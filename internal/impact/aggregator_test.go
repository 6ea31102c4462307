package impact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-impact-engine/internal/types"
)

func batch(label types.IntensityLabel, confidence float64, n int) []types.ArticleSentiment {
	out := make([]types.ArticleSentiment, n)
	for i := range out {
		out[i] = types.ArticleSentiment{Label: label, Confidence: confidence}
	}
	return out
}

func TestAggregateEmptyBatch(t *testing.T) {
	agg := NewAggregator()
	dist, res := agg.Aggregate(context.Background(), nil)

	assert.Equal(t, 0, dist.Total)
	assert.Equal(t, types.Neutral, res.Prediction)
	assert.Zero(t, res.Confidence)
	assert.Zero(t, res.Score)
	assert.Equal(t, "No articles available for prediction.", res.Reasoning)
	assert.Equal(t, types.SourceRuleBased, res.Source)
}

func TestAggregateMixedBatch(t *testing.T) {
	// 7 strong positives at 0.9 against 3 slight negatives at 0.6:
	// net = (6.3*3 - 1.8*1) / 8.1 = 2.111..., confidence = 10/14 * 6.3/8.1.
	articles := append(
		batch(types.StronglyPositive, 0.9, 7),
		batch(types.SlightlyNegative, 0.6, 3)...,
	)

	agg := NewAggregator()
	dist, res := agg.Aggregate(context.Background(), articles)

	assert.Equal(t, 10, dist.Total)
	assert.Equal(t, 7, dist.Counts[types.StronglyPositive])
	assert.Equal(t, 3, dist.Counts[types.SlightlyNegative])

	assert.Equal(t, types.ModeratelyPositive, res.Prediction)
	assert.InDelta(t, 2.111, res.Score, 0.001)
	assert.InDelta(t, 0.5556, res.Confidence, 0.001)
	assert.Greater(t, res.Confidence, 0.5)
	assert.Equal(t, types.SourceRuleBased, res.Source)

	assert.Contains(t, res.Reasoning, "Based on 10 articles analyzed")
	assert.Contains(t, res.Reasoning, "70.0% strongly positive")
	assert.Contains(t, res.Reasoning, "30.0% slightly negative")
	assert.Contains(t, res.Reasoning, "Moderate positive sentiment")
}

func TestAggregateUnanimousBatch(t *testing.T) {
	agg := NewAggregator()
	_, res := agg.Aggregate(context.Background(), batch(types.StronglyNegative, 0.8, 8))

	assert.Equal(t, types.StronglyNegative, res.Prediction)
	assert.InDelta(t, -3, res.Score, 1e-9)
	// Full dominance: confidence equals saturation 8/12.
	assert.InDelta(t, 8.0/12.0, res.Confidence, 1e-9)
}

func TestAggregateConfidenceSaturatesWithCount(t *testing.T) {
	agg := NewAggregator()
	_, small := agg.Aggregate(context.Background(), batch(types.SlightlyPositive, 0.7, 2))
	_, large := agg.Aggregate(context.Background(), batch(types.SlightlyPositive, 0.7, 50))

	assert.Less(t, small.Confidence, large.Confidence)
	assert.Less(t, large.Confidence, 1.0)
}

func TestAggregateAllNeutral(t *testing.T) {
	agg := NewAggregator()
	dist, res := agg.Aggregate(context.Background(), batch(types.Neutral, 0.9, 5))

	assert.Equal(t, 5, dist.Total)
	assert.Empty(t, dist.Counts)
	assert.Equal(t, types.Neutral, res.Prediction)
	assert.Zero(t, res.Score)
	// Degenerate confidence: 0.2 times saturation.
	assert.InDelta(t, 0.2*5.0/9.0, res.Confidence, 1e-9)
}

func TestAggregateZeroConfidenceIsDegenerate(t *testing.T) {
	agg := NewAggregator()
	_, res := agg.Aggregate(context.Background(), batch(types.StronglyPositive, 0, 3))

	assert.Equal(t, types.Neutral, res.Prediction)
	assert.Zero(t, res.Score)
}

func TestAggregateSkipsInvalidLabels(t *testing.T) {
	articles := []types.ArticleSentiment{
		{Label: "garbage", Confidence: 0.9},
		{Label: types.SlightlyPositive, Confidence: 0.8},
	}
	agg := NewAggregator()
	dist, res := agg.Aggregate(context.Background(), articles)

	require.Equal(t, 1, dist.Counts[types.SlightlyPositive])
	assert.Equal(t, types.SlightlyPositive, res.Prediction)
}

func TestAggregateConfidenceClamped(t *testing.T) {
	// Out-of-range article confidences are clamped to [0, 1].
	articles := []types.ArticleSentiment{
		{Label: types.StronglyPositive, Confidence: 5.0},
		{Label: types.StronglyPositive, Confidence: -1.0},
	}
	agg := NewAggregator()
	_, res := agg.Aggregate(context.Background(), articles)

	assert.Equal(t, types.StronglyPositive, res.Prediction)
	assert.LessOrEqual(t, res.Confidence, 1.0)
}
