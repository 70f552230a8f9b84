// Package artifacts persists the trained model bundle as a directory of
// JSON blobs, swapped atomically so readers never see a half-written set.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/model"
)

const (
	currentDir = "current"

	manifestFile  = "manifest.json"
	waitModelFile = "wait_time_model.json"
	jamModelFile  = "jam_model.json"
	scalerFile    = "scaler.json"
	kmeansFile    = "kmeans_model.json"
	leStatusFile  = "label_encoder_status.json"
	leCityFile    = "label_encoder_city.json"
	leDayPartFile = "label_encoder_day_part.json"
	columnsFile   = "feature_columns.json"
)

type manifest struct {
	Version string `json:"version"`
}

// Store is a durable key-to-blob artifact store rooted at Dir. Save writes
// a complete bundle into a staging directory and renames it into place;
// Load reads the current bundle as one unit and fails if any piece is
// missing, so a partially written bundle is never served.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Save persists the bundle and atomically replaces the current one.
func (s *Store) Save(b *model.Bundle) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("save bundle: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("save bundle: %w", err)
	}
	staging, err := os.MkdirTemp(s.Dir, "bundle-")
	if err != nil {
		return fmt.Errorf("save bundle: %w", err)
	}
	defer os.RemoveAll(staging)

	files := map[string]interface{}{
		manifestFile:  manifest{Version: b.Version},
		waitModelFile: b.WaitModel,
		jamModelFile:  b.JamModel,
		scalerFile:    b.Scaler,
		kmeansFile:    b.Artifacts.KMeans, // marshals to null when clustering was skipped
		leStatusFile:  b.Artifacts.StatusEnc,
		leCityFile:    b.Artifacts.CityEnc,
		leDayPartFile: b.Artifacts.DayPartEnc,
		columnsFile:   b.Columns,
	}
	for name, value := range files {
		if err := writeJSON(filepath.Join(staging, name), value); err != nil {
			return err
		}
	}

	current := filepath.Join(s.Dir, currentDir)
	previous := current + ".previous"
	os.RemoveAll(previous)
	if _, err := os.Stat(current); err == nil {
		if err := os.Rename(current, previous); err != nil {
			return fmt.Errorf("save bundle: %w", err)
		}
	}
	if err := os.Rename(staging, current); err != nil {
		return fmt.Errorf("save bundle: %w", err)
	}
	os.RemoveAll(previous)
	return nil
}

// CurrentVersion reads the current bundle's version from its manifest
// without loading the models. Callers poll it to notice a swapped bundle.
func (s *Store) CurrentVersion() (string, error) {
	var m manifest
	if err := readJSON(filepath.Join(s.Dir, currentDir, manifestFile), &m); err != nil {
		return "", err
	}
	return m.Version, nil
}

// Load reads the current bundle. All required blobs must be present and
// valid; otherwise the whole load fails.
func (s *Store) Load() (*model.Bundle, error) {
	dir := filepath.Join(s.Dir, currentDir)

	var m manifest
	if err := readJSON(filepath.Join(dir, manifestFile), &m); err != nil {
		return nil, err
	}

	b := &model.Bundle{Version: m.Version}
	if err := readJSON(filepath.Join(dir, waitModelFile), &b.WaitModel); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, jamModelFile), &b.JamModel); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, scalerFile), &b.Scaler); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, kmeansFile), &b.Artifacts.KMeans); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, leStatusFile), &b.Artifacts.StatusEnc); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, leCityFile), &b.Artifacts.CityEnc); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, leDayPartFile), &b.Artifacts.DayPartEnc); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, columnsFile), &b.Columns); err != nil {
		return nil, err
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func writeJSON(path string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, into interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("unmarshal %s: %w", filepath.Base(path), err)
	}
	return nil
}
