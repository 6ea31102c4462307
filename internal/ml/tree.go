package ml

import (
	"math/rand"
	"sort"
)

// treeNode is one CART node. Leaves carry the class probability
// distribution; internal nodes route on Feature <= Threshold. The compact
// JSON keys keep serialized artifacts small.
type treeNode struct {
	Feature   int       `json:"f,omitempty"`
	Threshold float64   `json:"t,omitempty"`
	Left      *treeNode `json:"l,omitempty"`
	Right     *treeNode `json:"r,omitempty"`
	Probs     []float64 `json:"p,omitempty"`
}

func (n *treeNode) isLeaf() bool { return n.Probs != nil }

func (n *treeNode) predictProba(x []float64) []float64 {
	node := n
	for !node.isLeaf() {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Probs
}

type treeConfig struct {
	maxDepth   int
	minLeaf    int
	numClasses int
	// featureSubset limits how many features each split considers;
	// 0 means all features.
	featureSubset int
}

// growTree fits a weighted Gini CART tree over the sample indices idx.
func growTree(X [][]float64, y []int, w []float64, idx []int, depth int, cfg treeConfig, rng *rand.Rand) *treeNode {
	counts := classCounts(y, w, idx, cfg.numClasses)

	if depth >= cfg.maxDepth || len(idx) < 2*cfg.minLeaf || isPure(counts) {
		return leaf(counts)
	}

	feature, threshold, ok := bestSplit(X, y, w, idx, cfg, rng)
	if !ok {
		return leaf(counts)
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < cfg.minLeaf || len(right) < cfg.minLeaf {
		return leaf(counts)
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(X, y, w, left, depth+1, cfg, rng),
		Right:     growTree(X, y, w, right, depth+1, cfg, rng),
	}
}

func classCounts(y []int, w []float64, idx []int, numClasses int) []float64 {
	counts := make([]float64, numClasses)
	for _, i := range idx {
		counts[y[i]] += w[i]
	}
	return counts
}

func isPure(counts []float64) bool {
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

func leaf(counts []float64) *treeNode {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	probs := make([]float64, len(counts))
	if total > 0 {
		for i, c := range counts {
			probs[i] = c / total
		}
	} else {
		for i := range probs {
			probs[i] = 1 / float64(len(probs))
		}
	}
	return &treeNode{Probs: probs}
}

// bestSplit scans candidate features (all, or a random subset for forests)
// with a sort-and-sweep over thresholds, minimizing weighted Gini impurity.
func bestSplit(X [][]float64, y []int, w []float64, idx []int, cfg treeConfig, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(X[idx[0]])
	features := make([]int, numFeatures)
	for i := range features {
		features[i] = i
	}
	if cfg.featureSubset > 0 && cfg.featureSubset < numFeatures {
		rng.Shuffle(len(features), func(i, j int) {
			features[i], features[j] = features[j], features[i]
		})
		features = features[:cfg.featureSubset]
	}

	type sample struct {
		value  float64
		class  int
		weight float64
	}

	bestGini := gini(classCounts(y, w, idx, cfg.numClasses))
	bestFeature, bestThreshold := -1, 0.0
	found := false

	samples := make([]sample, len(idx))
	leftCounts := make([]float64, cfg.numClasses)
	rightCounts := make([]float64, cfg.numClasses)

	for _, f := range features {
		for k, i := range idx {
			samples[k] = sample{value: X[i][f], class: y[i], weight: w[i]}
		}
		sort.Slice(samples, func(a, b int) bool { return samples[a].value < samples[b].value })
		if samples[0].value == samples[len(samples)-1].value {
			continue
		}

		for c := range leftCounts {
			leftCounts[c] = 0
			rightCounts[c] = 0
		}
		var leftW, rightW float64
		for _, s := range samples {
			rightCounts[s.class] += s.weight
			rightW += s.weight
		}

		for k := 0; k < len(samples)-1; k++ {
			s := samples[k]
			leftCounts[s.class] += s.weight
			leftW += s.weight
			rightCounts[s.class] -= s.weight
			rightW -= s.weight

			if s.value == samples[k+1].value {
				continue
			}

			total := leftW + rightW
			if total == 0 {
				continue
			}
			g := (leftW*gini(leftCounts) + rightW*gini(rightCounts)) / total
			if g < bestGini-1e-12 {
				bestGini = g
				bestFeature = f
				bestThreshold = (s.value + samples[k+1].value) / 2
				found = true
			}
		}
	}

	return bestFeature, bestThreshold, found
}

func gini(counts []float64) float64 {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := c / total
		g -= p * p
	}
	return g
}
