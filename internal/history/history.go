// Package history owns the append-only status time series, fence
// registration and message provenance.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/fence"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/status"
)

// Event is one timestamped observation of a fence's state. Events are
// immutable once written: a newer status supersedes an older one, it never
// mutates it.
type Event struct {
	ID        int64        `json:"id"`
	FenceID   int64        `json:"fence_id"`
	Status    status.Label `json:"status"`
	Time      time.Time    `json:"time"`
	Image     string       `json:"image,omitempty"`
	MessageID int64        `json:"message_id,omitempty"`
}

// Message is the raw upstream message an event was derived from. Hash is the
// SHA-256 of the stored text and must stay recomputable; a mismatch signals
// tampering and is surfaced as a warning, never a fatal error.
type Message struct {
	ID     int64     `json:"id"`
	Source string    `json:"source"`
	Text   string    `json:"text"`
	Time   time.Time `json:"time"`
	Hash   string    `json:"hash"`
}

// Filter narrows a Query. Zero values mean "no constraint".
type Filter struct {
	FenceID int64
	From    time.Time
	To      time.Time
}

// LatestStatus is the most recent observation per fence, used by the
// prediction cycle.
type LatestStatus struct {
	Fence  fence.Fence
	Status status.Label
	Time   time.Time
}

// Prediction is one served wait-time estimate, persisted for display.
type Prediction struct {
	Time         time.Time    `json:"ts"`
	FenceID      int64        `json:"fence_id"`
	FenceName    string       `json:"fence_name"`
	Status       status.Label `json:"status"`
	WaitMinutes  int          `json:"wait_minutes"`
	ModelVersion string       `json:"model_version"`
}

// IntegrityViolation reports a stored message whose recomputed hash no
// longer matches the recorded one.
type IntegrityViolation struct {
	MessageID    int64  `json:"message_id"`
	StoredHash   string `json:"stored_hash"`
	ComputedHash string `json:"computed_hash"`
}

// Store is the history contract the ingestion pipeline and the training jobs
// share. Append is idempotent on (fence, timestamp): re-appending an
// identical pair is a no-op, not an error and not a duplicate row. Query
// returns events ordered by timestamp ascending and is restartable.
type Store interface {
	GetOrCreateFence(ctx context.Context, f fence.Fence) (fence.Fence, error)
	Fences(ctx context.Context) ([]fence.Fence, error)

	Append(ctx context.Context, e Event) (inserted bool, err error)
	Query(ctx context.Context, filter Filter) ([]Event, error)
	LatestStatuses(ctx context.Context) ([]LatestStatus, error)

	SaveMessage(ctx context.Context, m Message) (int64, error)
	VerifyIntegrity(ctx context.Context) ([]IntegrityViolation, error)

	SavePrediction(ctx context.Context, p Prediction) error
}

// HashText returns the hex SHA-256 of a message body.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
