package types

import (
	"fmt"
	"math"
	"strings"
)

// IntensityLabel is the closed sentiment/impact taxonomy shared by every
// component. Every label maps to a canonical score in [-3, 3]; continuous
// scores between the canonical points are produced by the combination policy
// and the ML path and are clamped back via LabelForScore.
type IntensityLabel string

const (
	StronglyNegative   IntensityLabel = "strongly_negative"
	ModeratelyNegative IntensityLabel = "moderately_negative"
	SlightlyNegative   IntensityLabel = "slightly_negative"
	Neutral            IntensityLabel = "neutral"
	SlightlyPositive   IntensityLabel = "slightly_positive"
	ModeratelyPositive IntensityLabel = "moderately_positive"
	StronglyPositive   IntensityLabel = "strongly_positive"
)

// AllLabels is the taxonomy in ascending score order.
var AllLabels = []IntensityLabel{
	StronglyNegative,
	ModeratelyNegative,
	SlightlyNegative,
	Neutral,
	SlightlyPositive,
	ModeratelyPositive,
	StronglyPositive,
}

// DirectionalLabels are the six non-neutral buckets, ascending.
var DirectionalLabels = []IntensityLabel{
	StronglyNegative,
	ModeratelyNegative,
	SlightlyNegative,
	SlightlyPositive,
	ModeratelyPositive,
	StronglyPositive,
}

var labelScores = map[IntensityLabel]float64{
	StronglyNegative:   -3,
	ModeratelyNegative: -2,
	SlightlyNegative:   -1,
	Neutral:            0,
	SlightlyPositive:   1,
	ModeratelyPositive: 2,
	StronglyPositive:   3,
}

// Valid reports whether l is one of the seven canonical labels.
func (l IntensityLabel) Valid() bool {
	_, ok := labelScores[l]
	return ok
}

// Score returns the canonical numeric score for the label. Unknown labels
// score 0; callers are expected to validate with Valid or ParseLabel first.
func (l IntensityLabel) Score() float64 {
	return labelScores[l]
}

// Positive reports whether the label is on the positive side of neutral.
func (l IntensityLabel) Positive() bool { return l.Score() > 0 }

// Negative reports whether the label is on the negative side of neutral.
func (l IntensityLabel) Negative() bool { return l.Score() < 0 }

// Display returns the label with underscores replaced by spaces, for
// human-readable reasoning strings.
func (l IntensityLabel) Display() string {
	return strings.ReplaceAll(string(l), "_", " ")
}

// ParseLabel normalizes a raw label string (case, surrounding space, spaces or
// hyphens for underscores) and returns the canonical label. Anything outside
// the taxonomy is rejected.
func ParseLabel(raw string) (IntensityLabel, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	l := IntensityLabel(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown intensity label %q", raw)
	}
	return l, nil
}

// LabelForScore maps a continuous score to the nearest canonical label.
// Scores are clamped to [-3, 3] first. Exact midpoints round toward zero, so
// 0.5 resolves to neutral and -1.5 to slightly_negative.
func LabelForScore(score float64) IntensityLabel {
	if score > 3 {
		score = 3
	} else if score < -3 {
		score = -3
	}

	lo := math.Floor(score)
	hi := math.Ceil(score)
	nearest := lo
	switch {
	case score-lo < hi-score:
		nearest = lo
	case hi-score < score-lo:
		nearest = hi
	default:
		// Midpoint: prefer the lower-magnitude bucket.
		if math.Abs(lo) < math.Abs(hi) {
			nearest = lo
		} else {
			nearest = hi
		}
	}

	for _, l := range AllLabels {
		if l.Score() == nearest {
			return l
		}
	}
	return Neutral
}
