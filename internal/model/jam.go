package model

import (
	"fmt"
	"sort"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/features"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/history"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/status"
)

// JamModel is the binary severe-jam classifier. Fences are one-hot encoded,
// so a fence never seen during training has no column and cannot be scored;
// that case is an explicit failure, not a silent zero.
type JamModel struct {
	Forest  *Forest  `json:"forest"`
	Columns []string `json:"columns"`
}

func jamFenceColumn(fenceID int64) string {
	return fmt.Sprintf("fence_%d", fenceID)
}

// BuildJamTrainingSet derives the classifier matrix from the raw event
// stream: temporal features plus a one-hot column per fence, target 1 when
// the observed status is the severe jam label.
func BuildJamTrainingSet(events []history.Event, p features.Params) (x [][]float64, y []float64, columns []string, err error) {
	if len(events) == 0 {
		return nil, nil, nil, fmt.Errorf("build jam training set: no events")
	}

	fenceIDs := make(map[int64]bool)
	for _, e := range events {
		fenceIDs[e.FenceID] = true
	}
	ids := make([]int64, 0, len(fenceIDs))
	for id := range fenceIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	columns = []string{"hour", "day_of_week", "is_weekend"}
	columnIndex := make(map[string]int, len(columns)+len(ids))
	for i, c := range columns {
		columnIndex[c] = i
	}
	for _, id := range ids {
		col := jamFenceColumn(id)
		columnIndex[col] = len(columns)
		columns = append(columns, col)
	}

	x = make([][]float64, len(events))
	y = make([]float64, len(events))
	for i, e := range events {
		row := make([]float64, len(columns))
		tp := features.TimeFeatures(e.Time, p)
		row[0] = float64(tp.Hour)
		row[1] = float64(tp.DayOfWeek)
		if tp.IsWeekend {
			row[2] = 1
		}
		row[columnIndex[jamFenceColumn(e.FenceID)]] = 1
		x[i] = row
		if e.Status == status.SevereJam {
			y[i] = 1
		}
	}
	return x, y, columns, nil
}

// Proba returns the severe-jam probability for a fence at a point in time.
func (m *JamModel) Proba(fenceID int64, tp features.TimeParts) (float64, error) {
	if m == nil || m.Forest == nil {
		return 0, fmt.Errorf("jam model not fitted")
	}
	row := make([]float64, len(m.Columns))
	fenceCol := -1
	for i, c := range m.Columns {
		switch c {
		case "hour":
			row[i] = float64(tp.Hour)
		case "day_of_week":
			row[i] = float64(tp.DayOfWeek)
		case "is_weekend":
			if tp.IsWeekend {
				row[i] = 1
			}
		case jamFenceColumn(fenceID):
			row[i] = 1
			fenceCol = i
		}
	}
	if fenceCol < 0 {
		return 0, fmt.Errorf("fence %d was not seen during jam model training", fenceID)
	}
	return m.Forest.Predict(row)
}
