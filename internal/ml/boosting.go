package ml

import (
	"math"
	"math/rand"
)

const (
	boostRounds   = 100
	boostMaxDepth = 5
)

// BoostedEnsemble is a SAMME-style multiclass boosted ensemble of shallow
// CART trees. Each round reweights training samples toward the ones the
// previous tree got wrong; prediction is an alpha-weighted vote.
type BoostedEnsemble struct {
	Trees      []*treeNode `json:"trees"`
	Alphas     []float64   `json:"alphas"`
	NumClasses int         `json:"num_classes"`
	// Priors is the training class distribution, returned when boosting
	// could not retain a single round.
	Priors []float64 `json:"priors"`
}

func trainBoosted(X [][]float64, y []int, numClasses int, seed int64) *BoostedEnsemble {
	n := len(X)
	k := float64(numClasses)
	cfg := treeConfig{
		maxDepth:   boostMaxDepth,
		minLeaf:    1,
		numClasses: numClasses,
	}

	ens := &BoostedEnsemble{NumClasses: numClasses}
	ens.Priors = make([]float64, numClasses)
	for _, c := range y {
		ens.Priors[c] += 1 / float64(n)
	}

	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	rng := rand.New(rand.NewSource(seed))
	for round := 0; round < boostRounds; round++ {
		tree := growTree(X, y, w, idx, 0, cfg, rng)

		err := 0.0
		misses := make([]bool, n)
		for i := range X {
			if argmax(tree.predictProba(X[i])) != y[i] {
				misses[i] = true
				err += w[i]
			}
		}

		if err <= 0 {
			// Perfect round dominates the vote; nothing left to reweight.
			ens.Trees = append(ens.Trees, tree)
			ens.Alphas = append(ens.Alphas, math.Log(1/1e-10)+math.Log(k-1))
			break
		}
		// Worse than random guessing for k classes ends boosting.
		if err >= 1-1/k {
			break
		}

		alpha := math.Log((1-err)/err) + math.Log(k-1)
		ens.Trees = append(ens.Trees, tree)
		ens.Alphas = append(ens.Alphas, alpha)

		total := 0.0
		for i := range w {
			if misses[i] {
				w[i] *= math.Exp(alpha)
			}
			total += w[i]
		}
		for i := range w {
			w[i] /= total
		}
	}
	return ens
}

func (b *BoostedEnsemble) predictProba(x []float64) []float64 {
	if len(b.Trees) == 0 {
		out := make([]float64, len(b.Priors))
		copy(out, b.Priors)
		return out
	}
	votes := make([]float64, b.NumClasses)
	totalAlpha := 0.0
	for t, tree := range b.Trees {
		votes[argmax(tree.predictProba(x))] += b.Alphas[t]
		totalAlpha += b.Alphas[t]
	}
	for c := range votes {
		votes[c] /= totalAlpha
	}
	return votes
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
