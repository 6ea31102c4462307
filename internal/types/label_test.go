package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabel(t *testing.T) {
	cases := []struct {
		raw  string
		want IntensityLabel
	}{
		{"strongly_positive", StronglyPositive},
		{"Strongly Positive", StronglyPositive},
		{"  moderately-negative  ", ModeratelyNegative},
		{"NEUTRAL", Neutral},
		{"slightly_negative", SlightlyNegative},
	}
	for _, tc := range cases {
		got, err := ParseLabel(tc.raw)
		require.NoError(t, err, "raw %q", tc.raw)
		assert.Equal(t, tc.want, got, "raw %q", tc.raw)
	}
}

func TestParseLabelRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "positive", "very_positive", "bullish"} {
		_, err := ParseLabel(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}

func TestLabelScoresAscending(t *testing.T) {
	prev := AllLabels[0].Score()
	for _, l := range AllLabels[1:] {
		assert.Greater(t, l.Score(), prev)
		prev = l.Score()
	}
}

func TestLabelForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  IntensityLabel
	}{
		{0, Neutral},
		{0.4, Neutral},
		{0.6, SlightlyPositive},
		{2.11, ModeratelyPositive},
		{-0.1, Neutral},
		{-1.2, SlightlyNegative},
		{-2.8, StronglyNegative},
		{5, StronglyPositive},
		{-7, StronglyNegative},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LabelForScore(tc.score), "score %v", tc.score)
	}
}

func TestLabelForScoreMidpointsRoundTowardZero(t *testing.T) {
	assert.Equal(t, Neutral, LabelForScore(0.5))
	assert.Equal(t, Neutral, LabelForScore(-0.5))
	assert.Equal(t, SlightlyPositive, LabelForScore(1.5))
	assert.Equal(t, SlightlyNegative, LabelForScore(-1.5))
	assert.Equal(t, ModeratelyPositive, LabelForScore(2.5))
}

func TestDirectionality(t *testing.T) {
	assert.True(t, StronglyPositive.Positive())
	assert.True(t, SlightlyNegative.Negative())
	assert.False(t, Neutral.Positive())
	assert.False(t, Neutral.Negative())
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "moderately positive", ModeratelyPositive.Display())
}
