package features

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/fence"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/history"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/status"
)

// TrainingSet is the engineered output of one training run: the scaled
// feature matrix, the wait-time target in minutes, and every fitted artifact
// the inference path needs to reproduce the derivation.
type TrainingSet struct {
	X       [][]float64
	Y       []float64
	Columns []string

	Scaler    *StandardScaler
	Artifacts Artifacts
}

type targetKey struct {
	fenceID   int64
	status    status.Label
	hour      int
	dayOfWeek int
}

// BuildTrainingSet runs the full feature pipeline: coordinate imputation,
// geographic clustering, temporal features, categorical encodings, wait-time
// target derivation, and scaling. Events whose fence is not in the registry
// are dropped.
func BuildTrainingSet(fences []fence.Fence, events []history.Event, p Params) (*TrainingSet, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("build training set: no events")
	}
	if len(fences) == 0 {
		return nil, fmt.Errorf("build training set: no fences")
	}

	imputed := ImputeCoordinates(fences)
	byID := make(map[int64]fence.Fence, len(imputed))
	points := make([][]float64, 0, len(imputed))
	for _, f := range imputed {
		byID[f.ID] = f
		points = append(points, []float64{f.Latitude, f.Longitude})
	}

	km := FitKMeans(points, clusterCount(points, p.Clusters))

	kept := make([]history.Event, 0, len(events))
	statuses := make([]string, 0, len(events))
	cities := make([]string, 0, len(events))
	dayParts := make([]string, 0, len(events))
	for _, e := range events {
		f, ok := byID[e.FenceID]
		if !ok {
			continue
		}
		kept = append(kept, e)
		statuses = append(statuses, string(e.Status))
		city := f.City
		if city == "" {
			city = "unknown"
		}
		cities = append(cities, city)
		dayParts = append(dayParts, DayPart(e.Time.Hour()))
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("build training set: no events reference a known fence")
	}

	artifacts := Artifacts{
		KMeans:     km,
		StatusEnc:  FitEncoder(statuses, p.DefaultUnknownCode),
		CityEnc:    FitEncoder(cities, p.DefaultUnknownCode),
		DayPartEnc: FitEncoder(dayParts, p.DefaultUnknownCode),
	}

	targets := deriveWaitTargets(kept, p)

	rows := make([][]float64, len(kept))
	for i, e := range kept {
		vec := Derive(byID[e.FenceID], e.Status, e.Time, artifacts, p)
		rows[i] = vec.Row()
	}

	scaler, err := FitScaler(rows)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		scaled, err := scaler.Transform(row)
		if err != nil {
			return nil, err
		}
		rows[i] = scaled
	}

	return &TrainingSet{
		X:         rows,
		Y:         targets,
		Columns:   Columns(),
		Scaler:    scaler,
		Artifacts: artifacts,
	}, nil
}

// ImputeCoordinates fills missing fence positions from the median of
// same-city fences, then from the global mean as the final fallback. The
// input slice is not modified.
func ImputeCoordinates(fences []fence.Fence) []fence.Fence {
	out := make([]fence.Fence, len(fences))
	copy(out, fences)

	cityLats := make(map[string][]float64)
	cityLons := make(map[string][]float64)
	var allLats, allLons []float64
	for _, f := range out {
		if !f.HasCoordinates() {
			continue
		}
		city := cityOf(f)
		cityLats[city] = append(cityLats[city], f.Latitude)
		cityLons[city] = append(cityLons[city], f.Longitude)
		allLats = append(allLats, f.Latitude)
		allLons = append(allLons, f.Longitude)
	}

	globalLat := meanOrZero(allLats)
	globalLon := meanOrZero(allLons)

	for i, f := range out {
		if f.HasCoordinates() {
			continue
		}
		city := cityOf(f)
		if lats := cityLats[city]; len(lats) > 0 {
			out[i].Latitude = median(lats)
			out[i].Longitude = median(cityLons[city])
		} else {
			out[i].Latitude = globalLat
			out[i].Longitude = globalLon
		}
	}
	return out
}

// clusterCount reduces the configured k when fewer distinct coordinate pairs
// exist, degrading to "no clustering" when nothing usable remains.
func clusterCount(points [][]float64, target int) int {
	if target < 1 {
		return 0
	}
	distinct := make(map[[2]float64]bool, len(points))
	for _, p := range points {
		if p[0] == 0 && p[1] == 0 {
			continue
		}
		distinct[[2]float64{p[0], p[1]}] = true
	}
	if len(distinct) < target {
		return len(distinct)
	}
	return target
}

// deriveWaitTargets computes the wait-time target per event: consecutive
// per-fence time deltas, grouped by (fence, status, hour, day-of-week), the
// median of strictly positive deltas broadcast back to every event in the
// group, converted to minutes, filled and clipped.
func deriveWaitTargets(events []history.Event, p Params) []float64 {
	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := events[order[a]], events[order[b]]
		if ea.FenceID != eb.FenceID {
			return ea.FenceID < eb.FenceID
		}
		return ea.Time.Before(eb.Time)
	})

	groupDeltas := make(map[targetKey][]float64)
	lastSeen := make(map[int64]time.Time)
	for _, i := range order {
		e := events[i]
		if prev, ok := lastSeen[e.FenceID]; ok {
			if delta := e.Time.Sub(prev).Seconds(); delta > 0 {
				k := keyOf(e, p)
				groupDeltas[k] = append(groupDeltas[k], delta)
			}
		}
		lastSeen[e.FenceID] = e.Time
	}

	medians := make(map[targetKey]float64, len(groupDeltas))
	for k, deltas := range groupDeltas {
		medians[k] = median(deltas)
	}

	targets := make([]float64, len(events))
	for i, e := range events {
		minutes := p.WaitFillMinutes
		if m, ok := medians[keyOf(e, p)]; ok {
			minutes = m / 60
		}
		if minutes < p.ClipLowerMinutes {
			minutes = p.ClipLowerMinutes
		}
		if minutes > p.ClipUpperMinutes {
			minutes = p.ClipUpperMinutes
		}
		targets[i] = minutes
	}
	return targets
}

func keyOf(e history.Event, p Params) targetKey {
	tp := TimeFeatures(e.Time, p)
	return targetKey{
		fenceID:   e.FenceID,
		status:    e.Status,
		hour:      tp.Hour,
		dayOfWeek: tp.DayOfWeek,
	}
}

func cityOf(f fence.Fence) string {
	if f.City == "" {
		return "unknown"
	}
	return f.City
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
