// Package features turns the raw status time series plus fence metadata into
// the numeric feature matrix the models are trained and served on. Training
// and inference share one derivation path, so the same logical inputs always
// produce the same vector.
package features

import "time"

// Params are the externally configured knobs of the feature pipeline.
type Params struct {
	// Location is the reference timezone temporal features are computed
	// in. Timestamps are converted into it before any hour, rush-hour or
	// day-part math, so the representation a caller happens to hold never
	// changes the derived vector. Nil leaves timestamps in their own zone.
	Location *time.Location
	// RushMorning and RushEvening are half-open [start, end) hour ranges,
	// local to Location.
	RushMorning [2]int
	RushEvening [2]int
	// WeekendDays is the set of weekdays counted as weekend.
	WeekendDays map[time.Weekday]bool
	// Wait-time target handling: default fill for groups with no usable
	// deltas, and the clip bounds applied to every target value (minutes).
	WaitFillMinutes  float64
	ClipLowerMinutes float64
	ClipUpperMinutes float64
	// Clusters is the target k for geographic clustering. It is reduced
	// automatically when fewer distinct coordinate pairs exist.
	Clusters int
	// DefaultUnknownCode is the encoder fallback for categories never seen
	// during training.
	DefaultUnknownCode int
}

// referenceZone is the zone the monitored checkpoints live in.
var referenceZone = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Gaza")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// DefaultParams mirrors the production configuration.
func DefaultParams() Params {
	return Params{
		Location:           referenceZone,
		RushMorning:        [2]int{7, 9},
		RushEvening:        [2]int{16, 18},
		WeekendDays:        map[time.Weekday]bool{time.Saturday: true, time.Sunday: true},
		WaitFillMinutes:    10,
		ClipLowerMinutes:   5,
		ClipUpperMinutes:   120,
		Clusters:           3,
		DefaultUnknownCode: 0,
	}
}
