package ml

import (
	"math"
	"math/rand"
)

const (
	forestSize     = 100
	forestMaxDepth = 10
	forestMinLeaf  = 1
)

// Forest is a bagged ensemble of Gini CART trees with sqrt(d) feature
// subsampling at every split. Probabilities are averaged leaf distributions.
type Forest struct {
	Trees      []*treeNode `json:"trees"`
	NumClasses int         `json:"num_classes"`
}

// trainForest fits the ensemble on dense feature rows X with class indices y.
// Each tree gets its own seeded source so training is deterministic for a
// given seed regardless of scheduling.
func trainForest(X [][]float64, y []int, numClasses int, seed int64) *Forest {
	n := len(X)
	d := len(X[0])
	subset := int(math.Sqrt(float64(d)))
	if subset < 1 {
		subset = 1
	}
	cfg := treeConfig{
		maxDepth:      forestMaxDepth,
		minLeaf:       forestMinLeaf,
		numClasses:    numClasses,
		featureSubset: subset,
	}

	forest := &Forest{NumClasses: numClasses, Trees: make([]*treeNode, forestSize)}
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}

	for t := 0; t < forestSize; t++ {
		rng := rand.New(rand.NewSource(seed + int64(t)*7919))
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		forest.Trees[t] = growTree(X, y, weights, idx, 0, cfg, rng)
	}
	return forest
}

func (f *Forest) predictProba(x []float64) []float64 {
	probs := make([]float64, f.NumClasses)
	if len(f.Trees) == 0 {
		for i := range probs {
			probs[i] = 1 / float64(f.NumClasses)
		}
		return probs
	}
	for _, tree := range f.Trees {
		for c, p := range tree.predictProba(x) {
			probs[c] += p
		}
	}
	for c := range probs {
		probs[c] /= float64(len(f.Trees))
	}
	return probs
}
