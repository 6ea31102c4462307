package news

import (
	"strings"

	"news-impact-engine/internal/types"
)

var positiveWords = []string{
	"profit", "gain", "rise", "up", "growth", "beat", "surge",
	"rally", "soar", "increase", "positive", "bullish", "strong",
	"excellent", "outstanding", "record", "breakthrough",
}

var negativeWords = []string{
	"loss", "fall", "down", "decline", "miss", "drop", "plunge",
	"crash", "decrease", "negative", "bearish", "weak", "lawsuit",
	"disappointing", "concern", "warning", "crisis",
}

// LexiconScorer assigns intensity labels by keyword counting. It is the
// fallback scorer for when no external sentiment model feeds the engine;
// intensity scales with the margin between positive and negative hits.
type LexiconScorer struct{}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

// Score labels one article. A tie between positive and negative hits is
// genuinely neutral, with low confidence.
func (s *LexiconScorer) Score(article Article) types.ArticleSentiment {
	text := strings.ToLower(article.Title + " " + article.Content)

	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			neg++
		}
	}

	label, confidence := types.Neutral, 0.3
	switch {
	case pos > neg:
		label, confidence = intensity(pos-neg, true)
	case neg > pos:
		label, confidence = intensity(neg-pos, false)
	}

	return types.ArticleSentiment{
		Label:      label,
		Confidence: confidence,
		Title:      article.Title,
		Text:       article.Content,
	}
}

// ScoreAll labels a fetched batch in order.
func (s *LexiconScorer) ScoreAll(articles []Article) []types.ArticleSentiment {
	scored := make([]types.ArticleSentiment, len(articles))
	for i, a := range articles {
		scored[i] = s.Score(a)
	}
	return scored
}

func intensity(margin int, positive bool) (types.IntensityLabel, float64) {
	switch {
	case margin >= 3:
		if positive {
			return types.StronglyPositive, 0.8
		}
		return types.StronglyNegative, 0.8
	case margin >= 2:
		if positive {
			return types.ModeratelyPositive, 0.7
		}
		return types.ModeratelyNegative, 0.7
	default:
		if positive {
			return types.SlightlyPositive, 0.6
		}
		return types.SlightlyNegative, 0.6
	}
}
