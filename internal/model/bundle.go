package model

import (
	"fmt"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/features"
)

// Bundle is the versioned set of fitted artifacts the serving path needs:
// both models, the scaler, the feature-derivation artifacts and the feature
// column order. A bundle is only ever swapped in as a whole; partial bundles
// never reach the predictor.
type Bundle struct {
	Version   string
	WaitModel *Forest
	JamModel  *JamModel
	Scaler    *features.StandardScaler
	Artifacts features.Artifacts
	Columns   []string
}

// Validate rejects bundles that are incomplete or whose persisted column
// order no longer matches the derivation code. The k-means model is allowed
// to be nil: that is the "clustering skipped" sentinel.
func (b *Bundle) Validate() error {
	switch {
	case b.WaitModel == nil:
		return fmt.Errorf("bundle %s: wait model missing", b.Version)
	case b.JamModel == nil:
		return fmt.Errorf("bundle %s: jam model missing", b.Version)
	case b.Scaler == nil:
		return fmt.Errorf("bundle %s: scaler missing", b.Version)
	case b.Artifacts.StatusEnc == nil || b.Artifacts.CityEnc == nil || b.Artifacts.DayPartEnc == nil:
		return fmt.Errorf("bundle %s: label encoder missing", b.Version)
	}
	expected := features.Columns()
	if len(b.Columns) != len(expected) {
		return fmt.Errorf("bundle %s: %d feature columns, derivation has %d", b.Version, len(b.Columns), len(expected))
	}
	for i, c := range expected {
		if b.Columns[i] != c {
			return fmt.Errorf("bundle %s: feature column %d is %q, derivation has %q", b.Version, i, b.Columns[i], c)
		}
	}
	return nil
}
