package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-impact-engine/internal/types"
)

func TestSimulateRejectsBadDomain(t *testing.T) {
	sim := NewSimulator()
	res := ruleResult(1.0, 0.5)

	_, err := sim.Simulate(res, 0, 10, 42)
	assert.Error(t, err)

	_, err = sim.Simulate(res, -100, 10, 42)
	assert.Error(t, err)

	_, err = sim.Simulate(res, 100, -1, 42)
	assert.Error(t, err)
}

func TestSimulateZeroHorizon(t *testing.T) {
	sim := NewSimulator()
	path, err := sim.Simulate(ruleResult(2.0, 0.8), 100, 0, 42)
	require.NoError(t, err)
	assert.NotNil(t, path)
	assert.Empty(t, path)
}

func TestSimulateDeterministicUnderSeed(t *testing.T) {
	sim := NewSimulator()
	res := ruleResult(2.0, 0.7)

	a, err := sim.Simulate(res, 250, 30, 42)
	require.NoError(t, err)
	b, err := sim.Simulate(res, 250, 30, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := sim.Simulate(res, 250, 30, 43)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSimulateLengthAndFloor(t *testing.T) {
	sim := NewSimulator()
	path, err := sim.Simulate(ruleResult(-3.0, 0.9), 0.02, 50, 7)
	require.NoError(t, err)
	require.Len(t, path, 50)
	for i, p := range path {
		assert.GreaterOrEqual(t, p, sim.PriceFloor, "step %d", i)
	}
}

func TestSimulatePositiveDriftTrendsUp(t *testing.T) {
	sim := NewSimulator()
	res := ruleResult(3.0, 1.0)

	// Average many paths; noise averages out and the drift remains.
	var sum float64
	const runs = 200
	for seed := int64(0); seed < runs; seed++ {
		path, err := sim.Simulate(res, 100, 20, seed)
		require.NoError(t, err)
		sum += path[len(path)-1]
	}
	mean := sum / runs
	assert.Greater(t, mean, 102.0)
	assert.Less(t, mean, 110.0)
}

func TestSimulateScoreClamped(t *testing.T) {
	sim := NewSimulator()
	wild := ruleResult(0, 0.5)
	wild.Score = 50

	capped := ruleResult(3.0, 0.5)

	a, err := sim.Simulate(wild, 100, 10, 42)
	require.NoError(t, err)
	b, err := sim.Simulate(capped, 100, 10, 42)
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestSimulateConfidenceTightensNoise(t *testing.T) {
	sim := NewSimulator()
	low := ruleResult(0, 0.0)
	high := ruleResult(0, 1.0)

	spread := func(res types.PredictionResult) float64 {
		min, max := 1e18, -1e18
		for seed := int64(0); seed < 100; seed++ {
			path, err := sim.Simulate(res, 100, 1, seed)
			require.NoError(t, err)
			if path[0] < min {
				min = path[0]
			}
			if path[0] > max {
				max = path[0]
			}
		}
		return max - min
	}

	assert.Greater(t, spread(low), spread(high))
}
