package features

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers every feature column to zero mean and unit
// variance. It is fit once on the full training matrix and persisted; the
// inference path reuses the fitted parameters and never refits.
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler learns per-column mean and standard deviation. Constant columns
// get a standard deviation of 1 so scaling leaves them centered, not NaN.
func FitScaler(rows [][]float64) (*StandardScaler, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("fit scaler: empty training matrix")
	}
	cols := len(rows[0])
	scaler := &StandardScaler{
		Mean: make([]float64, cols),
		Std:  make([]float64, cols),
	}
	column := make([]float64, len(rows))
	for c := 0; c < cols; c++ {
		for r, row := range rows {
			column[r] = row[c]
		}
		scaler.Mean[c] = stat.Mean(column, nil)
		std := stat.StdDev(column, nil)
		if std == 0 || std != std {
			std = 1
		}
		scaler.Std[c] = std
	}
	return scaler, nil
}

// Transform scales one row. The input is not modified.
func (s *StandardScaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("transform: row has %d columns, scaler fit on %d", len(row), len(s.Mean))
	}
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.Mean[i]) / s.Std[i]
	}
	return out, nil
}
