package news

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"news-impact-engine/internal/types"
)

func TestLexiconScorerPositive(t *testing.T) {
	s := NewLexiconScorer()

	got := s.Score(Article{Title: "Profits rise", Content: "Company reports strong growth and record surge"})
	assert.Equal(t, types.StronglyPositive, got.Label)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)

	got = s.Score(Article{Title: "Shares gain on profit beat"})
	assert.True(t, got.Label.Positive())
}

func TestLexiconScorerNegative(t *testing.T) {
	s := NewLexiconScorer()

	got := s.Score(Article{Title: "Lawsuit concern", Content: "Shares fall as losses mount and crisis deepens"})
	assert.Equal(t, types.StronglyNegative, got.Label)

	got = s.Score(Article{Title: "Quarterly numbers decline"})
	assert.Equal(t, types.SlightlyNegative, got.Label)
	assert.InDelta(t, 0.6, got.Confidence, 1e-9)
}

func TestLexiconScorerNeutralOnTie(t *testing.T) {
	s := NewLexiconScorer()

	got := s.Score(Article{Title: "Nothing happened"})
	assert.Equal(t, types.Neutral, got.Label)
	assert.InDelta(t, 0.3, got.Confidence, 1e-9)

	got = s.Score(Article{Title: "Profit and loss statement released"})
	assert.Equal(t, types.Neutral, got.Label)
}

func TestLexiconScorerCarriesArticleText(t *testing.T) {
	s := NewLexiconScorer()
	got := s.Score(Article{Title: "Profit beat", Content: "Full body text"})
	assert.Equal(t, "Profit beat", got.Title)
	assert.Equal(t, "Full body text", got.Text)
}

func TestScoreAllPreservesOrder(t *testing.T) {
	s := NewLexiconScorer()
	scored := s.ScoreAll([]Article{
		{Title: "Profits surge and rally on growth"},
		{Title: "Shares crash on loss warning"},
	})
	assert.Len(t, scored, 2)
	assert.True(t, scored[0].Label.Positive())
	assert.True(t, scored[1].Label.Negative())
}

func TestDomainHelper(t *testing.T) {
	assert.Equal(t, "www.moneycontrol.com", domain("https://www.moneycontrol.com"))
	assert.Equal(t, "", domain("://bad"))
}
