package ml

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"news-impact-engine/internal/types"
)

// numericKeys is the fixed order of numeric side features appended after the
// text vector. Missing keys contribute zero.
var numericKeys = []string{"sentiment_score", "confidence", "article_count"}

// Vectorizer is a TF-IDF term weighter over unigrams and bigrams with a
// frequency-capped vocabulary. It is fit once on the training corpus; the
// fitted vocabulary and IDF weights are frozen inside the artifact and applied
// unchanged at inference.
type Vectorizer struct {
	Vocab       map[string]int `json:"vocab"`
	IDF         []float64      `json:"idf"`
	MaxFeatures int            `json:"max_features"`
}

// Scaler standardizes numeric side features using statistics fit only on the
// training split.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FeatureExtractor is the full fitted transform: text vectorizer plus numeric
// scaler. Width is constant once fitted.
type FeatureExtractor struct {
	Vectorizer *Vectorizer `json:"vectorizer"`
	Scaler     *Scaler     `json:"scaler"`
}

// tokenize lowercases and splits on non-alphanumerics, then appends bigrams.
func tokenize(text string) []string {
	text = strings.ToLower(text)

	var words []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	terms := make([]string, 0, 2*len(words))
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// fitVectorizer builds the vocabulary from the training corpus: the
// maxFeatures most document-frequent terms (ties broken lexicographically, so
// fitting is deterministic), with smoothed IDF weights.
func fitVectorizer(docs []string, maxFeatures int) *Vectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range tokenize(doc) {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	v := &Vectorizer{
		Vocab:       make(map[string]int, len(terms)),
		IDF:         make([]float64, len(terms)),
		MaxFeatures: maxFeatures,
	}
	n := float64(len(docs))
	for i, term := range terms {
		v.Vocab[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v
}

// Transform maps a document onto the frozen vocabulary: term counts weighted
// by IDF, then L2-normalized. Out-of-vocabulary terms are dropped.
func (v *Vectorizer) Transform(doc string) []float64 {
	vec := make([]float64, len(v.IDF))
	for _, term := range tokenize(doc) {
		if idx, ok := v.Vocab[term]; ok {
			vec[idx] += v.IDF[idx]
		}
	}

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func fitScaler(rows [][]float64) *Scaler {
	if len(rows) == 0 {
		return &Scaler{}
	}
	width := len(rows[0])
	s := &Scaler{
		Mean: make([]float64, width),
		Std:  make([]float64, width),
	}
	for _, row := range rows {
		for i, x := range row {
			s.Mean[i] += x
		}
	}
	n := float64(len(rows))
	for i := range s.Mean {
		s.Mean[i] /= n
	}
	for _, row := range rows {
		for i, x := range row {
			d := x - s.Mean[i]
			s.Std[i] += d * d
		}
	}
	for i := range s.Std {
		s.Std[i] = math.Sqrt(s.Std[i] / n)
		if s.Std[i] == 0 {
			s.Std[i] = 1
		}
	}
	return s
}

// Transform standardizes one numeric row as (x - mean) / std.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, x := range row {
		if i < len(s.Mean) {
			out[i] = (x - s.Mean[i]) / s.Std[i]
		} else {
			out[i] = x
		}
	}
	return out
}

// fitExtractor fits the full transform on the training split only.
func fitExtractor(examples []types.TrainingExample, maxFeatures int) *FeatureExtractor {
	docs := make([]string, len(examples))
	numeric := make([][]float64, len(examples))
	for i, ex := range examples {
		docs[i] = ex.Text
		numeric[i] = numericRow(ex.Features)
	}
	return &FeatureExtractor{
		Vectorizer: fitVectorizer(docs, maxFeatures),
		Scaler:     fitScaler(numeric),
	}
}

// Width is the fixed length of produced feature vectors.
func (fe *FeatureExtractor) Width() int {
	return len(fe.Vectorizer.IDF) + len(numericKeys)
}

// ExampleVector transforms a training example with the frozen state.
func (fe *FeatureExtractor) ExampleVector(ex types.TrainingExample) []float64 {
	text := fe.Vectorizer.Transform(ex.Text)
	return append(text, fe.Scaler.Transform(numericRow(ex.Features))...)
}

// ArticleVector transforms a live article the same way training rows were
// transformed: text through the frozen vocabulary, the label score and
// scorer confidence as numeric side features.
func (fe *FeatureExtractor) ArticleVector(art types.ArticleSentiment, batchSize int) []float64 {
	text := art.Text
	if text == "" {
		text = art.Title
	}
	vec := fe.Vectorizer.Transform(text)
	numeric := map[string]float64{
		"sentiment_score": art.Label.Score(),
		"confidence":      art.Confidence,
		"article_count":   float64(batchSize),
	}
	return append(vec, fe.Scaler.Transform(numericRow(numeric))...)
}

func numericRow(features map[string]float64) []float64 {
	row := make([]float64, len(numericKeys))
	for i, key := range numericKeys {
		row[i] = features[key]
	}
	return row
}
