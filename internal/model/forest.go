package model

import (
	"fmt"
	"math"
	"math/rand"
)

// ForestConfig mirrors the historical training hyperparameters: 100 trees,
// bootstrap sampling, sqrt feature subsampling, fixed seed for
// reproducibility.
type ForestConfig struct {
	Trees           int
	MaxDepth        int // 0 = unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seed            int64
}

// DefaultForestConfig returns the production hyperparameters.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            42,
	}
}

// Forest is a fitted random-forest regressor. Prediction is the mean of the
// per-tree outputs; on a 0/1 target that mean is a probability.
type Forest struct {
	Trees    []*treeNode `json:"trees"`
	Features int         `json:"features"`
}

// FitForest trains a forest on the rows of x against target y. Training is
// fully deterministic for a given seed.
func FitForest(x [][]float64, y []float64, cfg ForestConfig) (*Forest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("fit forest: %d rows, %d targets", len(x), len(y))
	}
	if cfg.Trees < 1 {
		return nil, fmt.Errorf("fit forest: tree count %d", cfg.Trees)
	}

	n := len(x)
	numFeatures := len(x[0])
	treeCfg := treeConfig{
		maxDepth:         cfg.MaxDepth,
		minSamplesSplit:  cfg.MinSamplesSplit,
		minSamplesLeaf:   cfg.MinSamplesLeaf,
		featuresPerSplit: int(math.Sqrt(float64(numFeatures))),
	}
	if treeCfg.featuresPerSplit < 1 {
		treeCfg.featuresPerSplit = 1
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	forest := &Forest{Trees: make([]*treeNode, cfg.Trees), Features: numFeatures}
	idx := make([]int, n)
	for t := 0; t < cfg.Trees; t++ {
		for i := range idx {
			idx[i] = rng.Intn(n) // bootstrap sample
		}
		forest.Trees[t] = buildTree(x, y, idx, 0, treeCfg, rng)
	}
	return forest, nil
}

// Predict returns the forest output for one row.
func (f *Forest) Predict(row []float64) (float64, error) {
	if f == nil || len(f.Trees) == 0 {
		return 0, fmt.Errorf("predict: forest not fitted")
	}
	if len(row) != f.Features {
		return 0, fmt.Errorf("predict: row has %d features, forest fit on %d", len(row), f.Features)
	}
	var sum float64
	for _, tree := range f.Trees {
		sum += tree.predict(row)
	}
	return sum / float64(len(f.Trees)), nil
}
