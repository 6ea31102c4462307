package types

import "time"

// PredictionSource identifies which stage produced a PredictionResult.
type PredictionSource string

const (
	SourceRuleBased PredictionSource = "rule_based"
	SourceML        PredictionSource = "ml"
	SourceCombined  PredictionSource = "combined"
)

// ArticleSentiment is one externally-scored article: a label plus the scorer's
// confidence in it. Text is optional and only consumed by the ML path.
type ArticleSentiment struct {
	Label      IntensityLabel `json:"label"`
	Confidence float64        `json:"confidence"`
	Title      string         `json:"title,omitempty"`
	Text       string         `json:"text,omitempty"`
}

// SentimentDistribution counts articles per non-neutral bucket. Neutral
// articles are part of Total but not of any bucket.
type SentimentDistribution struct {
	Counts map[IntensityLabel]int `json:"counts"`
	Total  int                    `json:"total"`
}

// Directional returns the number of articles in the six non-neutral buckets.
func (d SentimentDistribution) Directional() int {
	n := 0
	for _, c := range d.Counts {
		n += c
	}
	return n
}

// PredictionResult is the immutable verdict of a single stage.
type PredictionResult struct {
	Prediction IntensityLabel   `json:"prediction"`
	Confidence float64          `json:"confidence"`
	Score      float64          `json:"score"`
	Reasoning  string           `json:"reasoning"`
	Source     PredictionSource `json:"source"`
}

// PredictionOutcome bundles the per-stage verdicts returned by the engine.
// ML is nil when no trained artifact is loaded; Combined is always present.
type PredictionOutcome struct {
	RuleBased    PredictionResult      `json:"rule_based"`
	ML           *PredictionResult     `json:"ml,omitempty"`
	Combined     PredictionResult      `json:"combined"`
	Distribution SentimentDistribution `json:"distribution"`
}

// TrainingExample is one labeled row of the training dataset.
type TrainingExample struct {
	Text     string             `json:"text"`
	Label    IntensityLabel     `json:"label"`
	Features map[string]float64 `json:"features,omitempty"`
}

// ClassMetrics holds per-label evaluation results.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	Support   int     `json:"support"`
}

// TrainingReport is the evaluation summary returned by a training run.
type TrainingReport struct {
	Accuracy  float64                         `json:"accuracy"`
	PerClass  map[IntensityLabel]ClassMetrics `json:"per_class"`
	TrainSize int                             `json:"train_size"`
	EvalSize  int                             `json:"eval_size"`
	TrainedAt time.Time                       `json:"trained_at"`
}
