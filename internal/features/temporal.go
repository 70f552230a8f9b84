package features

import (
	"math"
	"time"
)

// TimeParts are the raw temporal features of one timestamp.
type TimeParts struct {
	Hour      int
	DayOfWeek int // Monday=0 .. Sunday=6
	Month     int
	DayPart   string
	IsWeekend bool
	IsRush    bool
	HourSin   float64
	HourCos   float64
	DaySin    float64
	DayCos    float64
	MonthSin  float64
	MonthCos  float64
}

// DayPart buckets an hour into one of four fixed six-hour day parts.
func DayPart(hour int) string {
	switch {
	case hour < 6:
		return "night"
	case hour < 12:
		return "morning"
	case hour < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// TimeFeatures extracts the temporal features of t, evaluated in the
// configured reference zone so the same instant always derives the same
// parts no matter which zone its representation carries. Hour, day-of-week
// and month also get sine/cosine encodings over their natural periods so
// that cyclical adjacency survives (hour 23 stays near hour 0).
func TimeFeatures(t time.Time, p Params) TimeParts {
	if p.Location != nil {
		t = t.In(p.Location)
	}
	hour := t.Hour()
	dayOfWeek := (int(t.Weekday()) + 6) % 7
	month := int(t.Month())

	isRush := (p.RushMorning[0] <= hour && hour < p.RushMorning[1]) ||
		(p.RushEvening[0] <= hour && hour < p.RushEvening[1])

	return TimeParts{
		Hour:      hour,
		DayOfWeek: dayOfWeek,
		Month:     month,
		DayPart:   DayPart(hour),
		IsWeekend: p.WeekendDays[t.Weekday()],
		IsRush:    isRush,
		HourSin:   math.Sin(2 * math.Pi * float64(hour) / 24),
		HourCos:   math.Cos(2 * math.Pi * float64(hour) / 24),
		DaySin:    math.Sin(2 * math.Pi * float64(dayOfWeek) / 7),
		DayCos:    math.Cos(2 * math.Pi * float64(dayOfWeek) / 7),
		MonthSin:  math.Sin(2 * math.Pi * float64(month-1) / 12),
		MonthCos:  math.Cos(2 * math.Pi * float64(month-1) / 12),
	}
}
