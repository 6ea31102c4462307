package impact

import (
	"context"
	"fmt"
	"strings"

	"news-impact-engine/internal/logger"
	"news-impact-engine/internal/types"
)

// Confidence in the rule-based verdict saturates with article count:
// N/(N+saturationCount) approaches but never reaches 1.
const saturationCount = 4.0

// Aggregator turns a batch of externally-scored articles into a sentiment
// distribution and a rule-based verdict. It never fails on valid input; empty
// or all-neutral batches degrade to a neutral, low-confidence result.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate buckets the articles into the six directional labels, weights each
// bucket by count times mean confidence, and maps the weighted net score back
// to the nearest label.
func (a *Aggregator) Aggregate(ctx context.Context, articles []types.ArticleSentiment) (types.SentimentDistribution, types.PredictionResult) {
	dist := types.SentimentDistribution{
		Counts: make(map[types.IntensityLabel]int, len(types.DirectionalLabels)),
		Total:  len(articles),
	}

	if len(articles) == 0 {
		return dist, types.PredictionResult{
			Prediction: types.Neutral,
			Confidence: 0,
			Score:      0,
			Reasoning:  "No articles available for prediction.",
			Source:     types.SourceRuleBased,
		}
	}

	// Per-bucket confidence mass. count x mean confidence collapses to the
	// sum of confidences in the bucket.
	weights := make(map[types.IntensityLabel]float64, len(types.DirectionalLabels))
	for _, art := range articles {
		if !art.Label.Valid() || art.Label == types.Neutral {
			continue
		}
		dist.Counts[art.Label]++
		weights[art.Label] += clamp01(art.Confidence)
	}

	var totalWeight, posWeight, negWeight, netScore float64
	for label, w := range weights {
		totalWeight += w
		netScore += w * label.Score()
		if label.Positive() {
			posWeight += w
		} else {
			negWeight += w
		}
	}

	saturation := float64(len(articles)) / (float64(len(articles)) + saturationCount)

	if totalWeight == 0 {
		res := types.PredictionResult{
			Prediction: types.Neutral,
			Confidence: 0.2 * saturation,
			Score:      0,
			Reasoning: fmt.Sprintf("Based on %d articles analyzed: no directional sentiment weight; all articles are neutral or carry zero confidence.",
				len(articles)),
			Source: types.SourceRuleBased,
		}
		logger.Debug(ctx, "Rule-based aggregation degenerate", "articles", len(articles))
		return dist, res
	}

	netScore /= totalWeight
	prediction := types.LabelForScore(netScore)

	winning := posWeight
	if negWeight > posWeight {
		winning = negWeight
	}
	dominance := winning / (posWeight + negWeight)
	confidence := saturation * dominance

	res := types.PredictionResult{
		Prediction: prediction,
		Confidence: confidence,
		Score:      netScore,
		Reasoning:  a.reasoning(articles, dist, weights, totalWeight, prediction),
		Source:     types.SourceRuleBased,
	}

	logger.Debug(ctx, "Rule-based aggregation completed",
		"articles", len(articles),
		"prediction", string(prediction),
		"score", netScore,
		"confidence", confidence,
	)
	return dist, res
}

// reasoning builds the human-readable breakdown: per-bucket article shares,
// the dominant bucket's share of the weighted mass, and a direction sentence.
func (a *Aggregator) reasoning(articles []types.ArticleSentiment, dist types.SentimentDistribution,
	weights map[types.IntensityLabel]float64, totalWeight float64, prediction types.IntensityLabel) string {

	var b strings.Builder
	fmt.Fprintf(&b, "Based on %d articles analyzed: ", len(articles))

	parts := make([]string, 0, len(types.DirectionalLabels))
	var dominant types.IntensityLabel
	var dominantShare float64
	for _, label := range types.DirectionalLabels {
		count := dist.Counts[label]
		if count == 0 {
			continue
		}
		pct := float64(count) / float64(len(articles)) * 100
		parts = append(parts, fmt.Sprintf("%.1f%% %s", pct, label.Display()))

		share := weights[label] / totalWeight
		if share > dominantShare {
			dominantShare = share
			dominant = label
		}
	}
	b.WriteString(strings.Join(parts, ", "))
	fmt.Fprintf(&b, ". Dominant bucket: %s (%.1f%% of weighted mass). ", dominant.Display(), dominantShare*100)

	switch prediction {
	case types.StronglyPositive:
		b.WriteString("Strong positive sentiment with clear upward momentum suggests significant potential for price appreciation.")
	case types.ModeratelyPositive:
		b.WriteString("Moderate positive sentiment indicates favorable conditions with potential for modest upward movement.")
	case types.SlightlyPositive:
		b.WriteString("Slight positive bias suggests minimal upward pressure, but sentiment is not strongly bullish.")
	case types.SlightlyNegative:
		b.WriteString("Slight negative bias suggests minimal downward pressure, but sentiment is not strongly bearish.")
	case types.ModeratelyNegative:
		b.WriteString("Moderate negative sentiment indicates unfavorable conditions with potential for modest downward movement.")
	case types.StronglyNegative:
		b.WriteString("Strong negative sentiment with clear downward momentum suggests significant potential for price decline.")
	default:
		b.WriteString("Balanced sentiment indicates uncertain price direction.")
	}

	return b.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
