package model

import (
	"math"
	"testing"
)

func TestForestLearnsMonotonicSignal(t *testing.T) {
	var x [][]float64
	var y []float64
	for i := 0; i < 60; i++ {
		v := float64(i)
		x = append(x, []float64{v})
		y = append(y, 3*v)
	}
	cfg := DefaultForestConfig()
	cfg.Trees = 30
	forest, err := FitForest(x, y, cfg)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	low, err := forest.Predict([]float64{5})
	if err != nil {
		t.Fatalf("predict low: %v", err)
	}
	high, err := forest.Predict([]float64{55})
	if err != nil {
		t.Fatalf("predict high: %v", err)
	}
	if low >= high {
		t.Errorf("predictions not monotonic: f(5)=%v >= f(55)=%v", low, high)
	}
	if math.Abs(high-165) > 30 {
		t.Errorf("f(55) = %v, want near 165", high)
	}
}

func TestForestDeterministicForFixedSeed(t *testing.T) {
	x := [][]float64{{1, 2}, {2, 1}, {3, 4}, {4, 3}, {5, 6}, {6, 5}, {7, 8}, {8, 7}}
	y := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	cfg := DefaultForestConfig()
	cfg.Trees = 10

	a, err := FitForest(x, y, cfg)
	if err != nil {
		t.Fatalf("fit a: %v", err)
	}
	b, err := FitForest(x, y, cfg)
	if err != nil {
		t.Fatalf("fit b: %v", err)
	}
	for _, row := range x {
		pa, _ := a.Predict(row)
		pb, _ := b.Predict(row)
		if pa != pb {
			t.Fatalf("same seed, different predictions: %v vs %v", pa, pb)
		}
	}
}

func TestForestRejectsWrongWidth(t *testing.T) {
	forest, err := FitForest([][]float64{{1, 2}, {3, 4}, {5, 6}}, []float64{1, 2, 3}, DefaultForestConfig())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if _, err := forest.Predict([]float64{1}); err == nil {
		t.Error("expected error for a row with the wrong feature count")
	}
}

func TestFitForestRejectsEmptyInput(t *testing.T) {
	if _, err := FitForest(nil, nil, DefaultForestConfig()); err == nil {
		t.Error("expected error for empty training data")
	}
}
