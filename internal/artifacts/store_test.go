package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/features"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/model"
)

func testBundle(t *testing.T) *model.Bundle {
	t.Helper()
	x := [][]float64{{1, 0, 1}, {2, 1, 0}, {3, 0, 1}, {4, 1, 0}, {5, 0, 1}, {6, 1, 0}}
	y := []float64{10, 20, 30, 40, 50, 60}
	cfg := model.DefaultForestConfig()
	cfg.Trees = 5
	forest, err := model.FitForest(x, y, cfg)
	if err != nil {
		t.Fatalf("fit wait forest: %v", err)
	}
	jamForest, err := model.FitForest(x, []float64{0, 1, 0, 1, 0, 1}, cfg)
	if err != nil {
		t.Fatalf("fit jam forest: %v", err)
	}
	cols := features.Columns()
	scaler := &features.StandardScaler{
		Mean: make([]float64, len(cols)),
		Std:  make([]float64, len(cols)),
	}
	for i := range scaler.Std {
		scaler.Std[i] = 1
	}
	return &model.Bundle{
		Version:   "20240101T000000Z",
		WaitModel: forest,
		JamModel:  &model.JamModel{Forest: jamForest, Columns: []string{"hour", "day_of_week", "fence_7"}},
		Scaler:    scaler,
		Artifacts: features.Artifacts{
			StatusEnc:  features.FitEncoder([]string{"open", "closed"}, 0),
			CityEnc:    features.FitEncoder([]string{"نابلس", "رام الله"}, 0),
			DayPartEnc: features.FitEncoder([]string{"morning", "evening"}, 0),
		},
		Columns: cols,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	want := testBundle(t)
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Version != want.Version {
		t.Errorf("version = %q, want %q", got.Version, want.Version)
	}
	if got.Artifacts.KMeans != nil {
		t.Errorf("expected skipped k-means to load as nil")
	}
	if len(got.Columns) != len(want.Columns) {
		t.Fatalf("columns = %d, want %d", len(got.Columns), len(want.Columns))
	}

	// Predictions through the reloaded model must match the original.
	row := []float64{3.5, 0, 1}
	a, err := want.WaitModel.Predict(row)
	if err != nil {
		t.Fatalf("predict original: %v", err)
	}
	b, err := got.WaitModel.Predict(row)
	if err != nil {
		t.Fatalf("predict reloaded: %v", err)
	}
	if a != b {
		t.Errorf("reloaded prediction = %v, want %v", b, a)
	}
}

func TestSaveReplacesPreviousBundle(t *testing.T) {
	store := NewStore(t.TempDir())
	first := testBundle(t)
	if err := store.Save(first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	second := testBundle(t)
	second.Version = "20240202T000000Z"
	if err := store.Save(second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Version != second.Version {
		t.Errorf("version = %q, want %q", got.Version, second.Version)
	}
}

func TestCurrentVersionTracksSwaps(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.CurrentVersion(); err == nil {
		t.Error("expected error before any bundle is saved")
	}

	first := testBundle(t)
	if err := store.Save(first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if v, err := store.CurrentVersion(); err != nil || v != first.Version {
		t.Errorf("CurrentVersion = %q, %v; want %q", v, err, first.Version)
	}

	second := testBundle(t)
	second.Version = "20240202T000000Z"
	if err := store.Save(second); err != nil {
		t.Fatalf("save second: %v", err)
	}
	if v, err := store.CurrentVersion(); err != nil || v != second.Version {
		t.Errorf("CurrentVersion after swap = %q, %v; want %q", v, err, second.Version)
	}
}

func TestLoadFailsOnMissingBlob(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Save(testBundle(t)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.Remove(filepath.Join(store.Dir, currentDir, scalerFile)); err != nil {
		t.Fatalf("remove scaler blob: %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Fatal("expected load to fail when a blob is missing")
	}
}

func TestLoadFailsWhenNothingSaved(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Load(); err == nil {
		t.Fatal("expected load to fail on empty store")
	}
}
