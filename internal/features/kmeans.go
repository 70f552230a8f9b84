package features

import "gonum.org/v1/gonum/floats"

const kmeansMaxIterations = 100

// KMeans is a fitted coordinate partition. The zero (nil) model is the
// "clustering skipped" sentinel: Predict on it returns cluster 0.
type KMeans struct {
	Centroids [][]float64 `json:"centroids"`
}

// FitKMeans fits a deterministic k-means partition over the points. The
// first centroid is the first point and the remaining seeds are chosen
// farthest-first, so the same inputs always produce the same partition.
// Returns nil when there is nothing to cluster.
func FitKMeans(points [][]float64, k int) *KMeans {
	if len(points) == 0 || k < 1 {
		return nil
	}
	if k > len(points) {
		k = len(points)
	}

	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[0]))
	for len(centroids) < k {
		bestIdx, bestDist := 0, -1.0
		for i, p := range points {
			minDist := floats.Distance(p, centroids[0], 2)
			for _, c := range centroids[1:] {
				if d := floats.Distance(p, c, 2); d < minDist {
					minDist = d
				}
			}
			if minDist > bestDist {
				bestDist, bestIdx = minDist, i
			}
		}
		centroids = append(centroids, clonePoint(points[bestIdx]))
	}

	model := &KMeans{Centroids: centroids}
	assignments := make([]int, len(points))
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, p := range points {
			cluster := model.nearest(p)
			if cluster != assignments[i] {
				assignments[i] = cluster
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		for c := range model.Centroids {
			sum := make([]float64, len(model.Centroids[c]))
			count := 0
			for i, p := range points {
				if assignments[i] == c {
					floats.Add(sum, p)
					count++
				}
			}
			// An emptied cluster keeps its previous centroid.
			if count > 0 {
				floats.Scale(1/float64(count), sum)
				model.Centroids[c] = sum
			}
		}
	}
	return model
}

// Predict returns the cluster id of a coordinate pair. A nil model always
// returns 0.
func (m *KMeans) Predict(latitude, longitude float64) int {
	if m == nil || len(m.Centroids) == 0 {
		return 0
	}
	return m.nearest([]float64{latitude, longitude})
}

func (m *KMeans) nearest(p []float64) int {
	best, bestDist := 0, floats.Distance(p, m.Centroids[0], 2)
	for i := 1; i < len(m.Centroids); i++ {
		if d := floats.Distance(p, m.Centroids[i], 2); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
