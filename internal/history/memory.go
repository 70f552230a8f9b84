package history

import (
	"context"
	"sort"
	"sync"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/fence"
)

// MemoryStore is an in-process Store with the same idempotency contract as
// the Postgres implementation. It backs tests and local pipeline runs.
type MemoryStore struct {
	mu          sync.Mutex
	fences      []fence.Fence
	events      []Event
	messages    map[int64]Message
	predictions map[int64]Prediction
	nextFenceID int64
	nextEventID int64
	nextMsgID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messages:    make(map[int64]Message),
		predictions: make(map[int64]Prediction),
		nextFenceID: 1,
		nextEventID: 1,
		nextMsgID:   1,
	}
}

func (s *MemoryStore) GetOrCreateFence(_ context.Context, f fence.Fence) (fence.Fence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.fences {
		if existing.Name == f.Name {
			return existing, nil
		}
	}
	f.ID = s.nextFenceID
	s.nextFenceID++
	s.fences = append(s.fences, f)
	return f, nil
}

func (s *MemoryStore) Fences(_ context.Context) ([]fence.Fence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]fence.Fence, len(s.fences))
	copy(out, s.fences)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, e Event) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.events {
		if existing.FenceID == e.FenceID && existing.Time.Equal(e.Time) {
			return false, nil
		}
	}
	e.ID = s.nextEventID
	s.nextEventID++
	s.events = append(s.events, e)
	return true, nil
}

func (s *MemoryStore) Query(_ context.Context, filter Filter) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.events {
		if filter.FenceID != 0 && e.FenceID != filter.FenceID {
			continue
		}
		if !filter.From.IsZero() && e.Time.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !e.Time.Before(filter.To) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Time.Equal(out[j].Time) {
			return out[i].Time.Before(out[j].Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) LatestStatuses(_ context.Context) ([]LatestStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	latestByFence := make(map[int64]Event)
	for _, e := range s.events {
		if cur, ok := latestByFence[e.FenceID]; !ok || e.Time.After(cur.Time) {
			latestByFence[e.FenceID] = e
		}
	}
	var out []LatestStatus
	for _, f := range s.fences {
		e, ok := latestByFence[f.ID]
		if !ok {
			continue
		}
		out = append(out, LatestStatus{Fence: f, Status: e.Status, Time: e.Time})
	}
	return out, nil
}

func (s *MemoryStore) SaveMessage(_ context.Context, m Message) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		for id, existing := range s.messages {
			if existing.Hash == m.Hash && existing.Time.Equal(m.Time) {
				return id, nil
			}
		}
		m.ID = s.nextMsgID
		s.nextMsgID++
	}
	if _, ok := s.messages[m.ID]; !ok {
		s.messages[m.ID] = m
	}
	return m.ID, nil
}

func (s *MemoryStore) VerifyIntegrity(_ context.Context) ([]IntegrityViolation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var violations []IntegrityViolation
	for _, m := range s.messages {
		if computed := HashText(m.Text); computed != m.Hash {
			violations = append(violations, IntegrityViolation{
				MessageID:    m.ID,
				StoredHash:   m.Hash,
				ComputedHash: computed,
			})
		}
	}
	sort.Slice(violations, func(i, j int) bool { return violations[i].MessageID < violations[j].MessageID })
	return violations, nil
}

func (s *MemoryStore) SavePrediction(_ context.Context, p Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predictions[p.FenceID] = p
	return nil
}

// EventCount reports how many events are stored. Test helper.
func (s *MemoryStore) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// TamperMessage rewrites a stored message body without updating its hash.
// Test helper for the integrity sweep.
func (s *MemoryStore) TamperMessage(id int64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.messages[id]; ok {
		m.Text = text
		s.messages[id] = m
	}
}
