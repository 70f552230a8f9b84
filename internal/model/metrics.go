package model

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MAE is the mean absolute error.
func MAE(truth, predicted []float64) float64 {
	var sum float64
	for i := range truth {
		sum += math.Abs(truth[i] - predicted[i])
	}
	return sum / float64(len(truth))
}

// MedianAE is the median absolute error.
func MedianAE(truth, predicted []float64) float64 {
	errs := make([]float64, len(truth))
	for i := range truth {
		errs[i] = math.Abs(truth[i] - predicted[i])
	}
	sort.Float64s(errs)
	n := len(errs)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return errs[n/2]
	}
	return (errs[n/2-1] + errs[n/2]) / 2
}

// R2 is the coefficient of determination.
func R2(truth, predicted []float64) float64 {
	mean := stat.Mean(truth, nil)
	var ssRes, ssTot float64
	for i := range truth {
		ssRes += (truth[i] - predicted[i]) * (truth[i] - predicted[i])
		ssTot += (truth[i] - mean) * (truth[i] - mean)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// Accuracy scores binary predictions at a 0.5 probability threshold.
func Accuracy(truth []float64, scores []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	correct := 0
	for i := range truth {
		if (scores[i] >= 0.5) == (truth[i] >= 0.5) {
			correct++
		}
	}
	return float64(correct) / float64(len(truth))
}

// ConfusionMatrix returns [[tn, fp], [fn, tp]] at a 0.5 threshold.
func ConfusionMatrix(truth []float64, scores []float64) [2][2]int {
	var m [2][2]int
	for i := range truth {
		actual, predicted := 0, 0
		if truth[i] >= 0.5 {
			actual = 1
		}
		if scores[i] >= 0.5 {
			predicted = 1
		}
		m[actual][predicted]++
	}
	return m
}

// ROCAUC computes the area under the ROC curve via the rank statistic, with
// the standard tie correction. Returns 0.5 when one class is absent.
func ROCAUC(truth []float64, scores []float64) float64 {
	n := len(truth)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && scores[order[j]] == scores[order[i]] {
			j++
		}
		avgRank := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			ranks[order[k]] = avgRank
		}
		i = j
	}

	var positives, rankSum float64
	for i := range truth {
		if truth[i] >= 0.5 {
			positives++
			rankSum += ranks[i]
		}
	}
	negatives := float64(n) - positives
	if positives == 0 || negatives == 0 {
		return 0.5
	}
	return (rankSum - positives*(positives+1)/2) / (positives * negatives)
}
