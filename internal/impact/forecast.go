package impact

import (
	"fmt"
	"math"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"news-impact-engine/internal/types"
)

// Simulator renders a verdict as a simulated forward price path: a discrete
// random walk whose drift comes from the prediction score and whose noise
// tightens as confidence rises. It is a visualization aid, not a forecast of
// record; domain violations are clamped rather than raised.
type Simulator struct {
	// BaseVolatility is the per-step noise sigma for ordinary predictions;
	// StrongVolatility applies when |score| exceeds 2.
	BaseVolatility   float64
	StrongVolatility float64
	// MaxMovePct caps the horizon-total drift at the extreme score of 3.
	MaxMovePct float64
	// PriceFloor is the smallest price a step may produce.
	PriceFloor float64
}

// NewSimulator returns a simulator with the default constants: 1.5% base
// volatility, 2.5% for strong verdicts, a 6% horizon move cap and a 0.01
// price floor.
func NewSimulator() *Simulator {
	return &Simulator{
		BaseVolatility:   0.015,
		StrongVolatility: 0.025,
		MaxMovePct:       0.06,
		PriceFloor:       0.01,
	}
}

// Simulate produces `horizon` prices starting after the currentPrice anchor
// (the anchor itself is not part of the output). Identical (result, price,
// horizon, seed) inputs produce identical sequences.
func (s *Simulator) Simulate(result types.PredictionResult, currentPrice float64, horizon int, seed int64) ([]float64, error) {
	if currentPrice <= 0 {
		return nil, fmt.Errorf("current price must be positive, got %v", currentPrice)
	}
	if horizon < 0 {
		return nil, fmt.Errorf("horizon must be non-negative, got %d", horizon)
	}
	if horizon == 0 {
		return []float64{}, nil
	}

	score := result.Score
	if score > 3 {
		score = 3
	} else if score < -3 {
		score = -3
	}

	// Horizon-total drift target, compounded evenly across steps.
	target := (score / 3.0) * s.MaxMovePct
	drift := math.Pow(1+target, 1/float64(horizon)) - 1

	sigma := s.BaseVolatility
	if math.Abs(score) > 2 {
		sigma = s.StrongVolatility
	}
	sigma *= 1 - 0.5*clamp01(result.Confidence)

	noise := distuv.Normal{
		Mu:    0,
		Sigma: sigma,
		Src:   exprand.NewSource(uint64(seed)),
	}

	prices := make([]float64, horizon)
	prev := currentPrice
	for i := 0; i < horizon; i++ {
		step := drift
		// Once pinned at the floor, negative drift stops compounding.
		if prev <= s.PriceFloor && step < 0 {
			step = 0
		}
		p := prev * (1 + step + noise.Rand())
		if p < s.PriceFloor {
			p = s.PriceFloor
		}
		prices[i] = p
		prev = p
	}
	return prices, nil
}
