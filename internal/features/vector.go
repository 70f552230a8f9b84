package features

// Vector is one model input row. The struct fields and the slices returned
// by Columns and Row are kept in the same fixed order: column order is part
// of the model contract, and pinning it here makes a drift between training
// and inference a single-place bug instead of a silent one.
type Vector struct {
	FenceID     float64
	Latitude    float64
	Longitude   float64
	Hour        float64
	DayOfWeek   float64
	IsWeekend   float64
	Month       float64
	HourSin     float64
	HourCos     float64
	DaySin      float64
	DayCos      float64
	MonthSin    float64
	MonthCos    float64
	StatusCode  float64
	CityCode    float64
	GeoCluster  float64
	IsRushHour  float64
	DayPartCode float64
}

// Columns returns the feature column names in serialization order.
func Columns() []string {
	return []string{
		"fence_id",
		"latitude",
		"longitude",
		"hour",
		"day_of_week",
		"is_weekend",
		"month",
		"hour_sin",
		"hour_cos",
		"day_sin",
		"day_cos",
		"month_sin",
		"month_cos",
		"status_encoded",
		"city_encoded",
		"geo_cluster",
		"is_rush_hour",
		"day_part_encoded",
	}
}

// Row serializes the vector in Columns order.
func (v Vector) Row() []float64 {
	return []float64{
		v.FenceID,
		v.Latitude,
		v.Longitude,
		v.Hour,
		v.DayOfWeek,
		v.IsWeekend,
		v.Month,
		v.HourSin,
		v.HourCos,
		v.DaySin,
		v.DayCos,
		v.MonthSin,
		v.MonthCos,
		v.StatusCode,
		v.CityCode,
		v.GeoCluster,
		v.IsRushHour,
		v.DayPartCode,
	}
}
