// Package model fits and serves the tree-ensemble wait-time regressor and
// the binary jam-probability classifier.
package model

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is one CART node. Leaves carry the mean target of their samples;
// for the 0/1 jam target that mean is the leaf's positive-class fraction.
type treeNode struct {
	Feature   int       `json:"f"`
	Threshold float64   `json:"t"`
	Left      *treeNode `json:"l,omitempty"`
	Right     *treeNode `json:"r,omitempty"`
	Value     float64   `json:"v"`
	Leaf      bool      `json:"leaf,omitempty"`
}

type treeConfig struct {
	maxDepth         int // 0 = unlimited
	minSamplesSplit  int
	minSamplesLeaf   int
	featuresPerSplit int
}

func buildTree(x [][]float64, y []float64, idx []int, depth int, cfg treeConfig, rng *rand.Rand) *treeNode {
	if len(idx) < cfg.minSamplesSplit || (cfg.maxDepth > 0 && depth >= cfg.maxDepth) || constantTarget(y, idx) {
		return leaf(y, idx)
	}

	feature, threshold, ok := bestSplit(x, y, idx, cfg, rng)
	if !ok {
		return leaf(y, idx)
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < cfg.minSamplesLeaf || len(right) < cfg.minSamplesLeaf {
		return leaf(y, idx)
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildTree(x, y, left, depth+1, cfg, rng),
		Right:     buildTree(x, y, right, depth+1, cfg, rng),
	}
}

func leaf(y []float64, idx []int) *treeNode {
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return &treeNode{Leaf: true, Value: sum / float64(len(idx))}
}

func constantTarget(y []float64, idx []int) bool {
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}

// bestSplit searches a random subsample of features for the threshold that
// minimizes the summed squared error of the two children. Thresholds are
// midpoints between consecutive distinct sorted values.
func bestSplit(x [][]float64, y []float64, idx []int, cfg treeConfig, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(x[idx[0]])
	perm := rng.Perm(numFeatures)
	tryFeatures := cfg.featuresPerSplit
	if tryFeatures < 1 || tryFeatures > numFeatures {
		tryFeatures = numFeatures
	}

	bestSSE := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, len(idx))
	for _, f := range perm[:tryFeatures] {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })

		var leftSum, leftSq float64
		var totalSum, totalSq float64
		for _, i := range sorted {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		n := len(sorted)
		for pos := 0; pos < n-1; pos++ {
			yi := y[sorted[pos]]
			leftSum += yi
			leftSq += yi * yi

			cur, next := x[sorted[pos]][f], x[sorted[pos+1]][f]
			if cur == next {
				continue
			}

			nl := float64(pos + 1)
			nr := float64(n - pos - 1)
			sse := (leftSq - leftSum*leftSum/nl) +
				((totalSq - leftSq) - (totalSum-leftSum)*(totalSum-leftSum)/nr)
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = f
				bestThreshold = (cur + next) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func (n *treeNode) predict(row []float64) float64 {
	for !n.Leaf {
		if row[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}
