// Package fence holds the checkpoint entity and the text-to-checkpoint
// resolution logic.
package fence

import "strings"

// Fence is a named, geolocated checkpoint whose traffic status is tracked
// over time. Latitude/longitude of 0 mean the position is unknown and the
// fence is excluded from geographic features until coordinates are
// back-filled.
type Fence struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
}

// HasCoordinates reports whether the fence carries a usable position.
func (f Fence) HasCoordinates() bool {
	return f.Latitude != 0 || f.Longitude != 0
}

// CanonicalName maps a raw fence name onto its canonical spelling using the
// configured alias table, trimming surrounding whitespace first. Names not in
// the table pass through unchanged.
func CanonicalName(name string, aliases map[string]string) string {
	name = strings.TrimSpace(name)
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}
