package features

import (
	"math"
	"testing"
	"time"
)

func TestDayPart(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "night"}, {5, "night"},
		{6, "morning"}, {11, "morning"},
		{12, "afternoon"}, {17, "afternoon"},
		{18, "evening"}, {23, "evening"},
	}
	for _, tt := range tests {
		if got := DayPart(tt.hour); got != tt.want {
			t.Errorf("DayPart(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestTimeFeaturesRushHour(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		hour int
		want bool
	}{
		{6, false},
		{7, true}, {8, true}, // morning rush [7, 9)
		{9, false},
		{15, false},
		{16, true}, {17, true}, // evening rush [16, 18)
		{18, false},
		{23, false},
	}
	for _, tt := range tests {
		at := time.Date(2026, 3, 4, tt.hour, 0, 0, 0, p.Location)
		if got := TimeFeatures(at, p).IsRush; got != tt.want {
			t.Errorf("IsRush at hour %d = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

// The same instant must derive the same parts no matter which zone its
// representation carries: a local morning expressed in UTC is still inside
// the local rush window.
func TestTimeFeaturesPinnedToReferenceZone(t *testing.T) {
	p := DefaultParams()
	local := time.Date(2026, 3, 2, 8, 0, 0, 0, p.Location)
	utc := local.UTC()

	a := TimeFeatures(local, p)
	b := TimeFeatures(utc, p)
	if a != b {
		t.Fatalf("same instant derived differently: local %+v, utc %+v", a, b)
	}
	if a.Hour != 8 {
		t.Errorf("Hour = %d, want 8 in the reference zone", a.Hour)
	}
	if !a.IsRush {
		t.Error("08:00 reference-zone time not flagged as rush hour")
	}
	if a.DayPart != "morning" {
		t.Errorf("DayPart = %q, want morning", a.DayPart)
	}
}

func TestTimeFeaturesWeekend(t *testing.T) {
	p := DefaultParams()
	// 2026-03-02 is a Monday.
	monday := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)

	if TimeFeatures(monday, p).IsWeekend {
		t.Errorf("Monday flagged as weekend")
	}
	if !TimeFeatures(saturday, p).IsWeekend || !TimeFeatures(sunday, p).IsWeekend {
		t.Errorf("Saturday/Sunday not flagged as weekend")
	}

	if got := TimeFeatures(monday, p).DayOfWeek; got != 0 {
		t.Errorf("Monday DayOfWeek = %d, want 0", got)
	}
	if got := TimeFeatures(sunday, p).DayOfWeek; got != 6 {
		t.Errorf("Sunday DayOfWeek = %d, want 6", got)
	}

	// Friday/Saturday weekend variant stays configurable.
	p.WeekendDays = map[time.Weekday]bool{time.Friday: true, time.Saturday: true}
	friday := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	if !TimeFeatures(friday, p).IsWeekend {
		t.Errorf("Friday not flagged as weekend under Fri/Sat config")
	}
	if TimeFeatures(sunday, p).IsWeekend {
		t.Errorf("Sunday flagged as weekend under Fri/Sat config")
	}
}

// Hour 23 and hour 0 must stay adjacent in the cyclical encoding.
func TestTimeFeaturesCyclicalAdjacency(t *testing.T) {
	p := DefaultParams()
	h23 := TimeFeatures(time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC), p)
	h0 := TimeFeatures(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), p)
	h12 := TimeFeatures(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC), p)

	near := math.Hypot(h23.HourSin-h0.HourSin, h23.HourCos-h0.HourCos)
	far := math.Hypot(h12.HourSin-h0.HourSin, h12.HourCos-h0.HourCos)
	if near >= far {
		t.Errorf("hour 23 (dist %v) should be closer to hour 0 than hour 12 (dist %v)", near, far)
	}
}
