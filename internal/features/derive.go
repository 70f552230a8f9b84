package features

import (
	"time"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/fence"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/status"
)

// Artifacts are the fitted feature-derivation models. They are produced by
// BuildTrainingSet and reused verbatim at inference time.
type Artifacts struct {
	KMeans     *KMeans       // nil when clustering was skipped
	StatusEnc  *LabelEncoder
	CityEnc    *LabelEncoder
	DayPartEnc *LabelEncoder
}

// Derive builds the feature vector for one (fence, status, time) input. It
// is the single derivation path shared by training and inference, which is
// what makes the feature matrix reproducible.
func Derive(f fence.Fence, st status.Label, at time.Time, a Artifacts, p Params) Vector {
	city := f.City
	if city == "" {
		city = "unknown"
	}
	tp := TimeFeatures(at, p)

	return Vector{
		FenceID:     float64(f.ID),
		Latitude:    f.Latitude,
		Longitude:   f.Longitude,
		Hour:        float64(tp.Hour),
		DayOfWeek:   float64(tp.DayOfWeek),
		IsWeekend:   boolToFloat(tp.IsWeekend),
		Month:       float64(tp.Month),
		HourSin:     tp.HourSin,
		HourCos:     tp.HourCos,
		DaySin:      tp.DaySin,
		DayCos:      tp.DayCos,
		MonthSin:    tp.MonthSin,
		MonthCos:    tp.MonthCos,
		StatusCode:  float64(a.StatusEnc.Encode(string(st))),
		CityCode:    float64(a.CityEnc.Encode(city)),
		GeoCluster:  float64(a.KMeans.Predict(f.Latitude, f.Longitude)),
		IsRushHour:  boolToFloat(tp.IsRush),
		DayPartCode: float64(a.DayPartEnc.Encode(tp.DayPart)),
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
