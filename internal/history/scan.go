package history

import (
	"time"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/status"
)

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func statusLabel(s string) status.Label {
	return status.Label(s)
}
