package main

import (
	"context"
	"testing"
	"time"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/config"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/fence"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/history"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/ingest"
)

func testPipeline(t *testing.T) (*ingest.Pipeline, *history.MemoryStore) {
	t.Helper()
	store := history.NewMemoryStore()
	if err := ingest.Seed(context.Background(), store, []string{"صره"}, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &ingest.Pipeline{
		Store:    store,
		Matcher:  fence.DefaultMatcher(),
		Taxonomy: config.DefaultTaxonomy(),
	}, store
}

func TestProcessPayloadStoresEvent(t *testing.T) {
	pipeline, store := testPipeline(t)

	processPayload(context.Background(), pipeline,
		[]byte(`{"message_id":5,"source":"tareeqy_channel","text":"صره مغلق","ts":"2026-03-02T08:00:00Z"}`))

	events, err := store.Query(context.Background(), history.Filter{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("stored events = %d, want 1", len(events))
	}
	want := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	if !events[0].Time.Equal(want) {
		t.Errorf("event time = %v, want %v", events[0].Time, want)
	}
}

func TestProcessPayloadDropsMalformedTimestamp(t *testing.T) {
	pipeline, store := testPipeline(t)

	// A bad ts must not be replaced with the current time: that would mint
	// a fresh (fence, time) pair on every replay of the same message.
	processPayload(context.Background(), pipeline,
		[]byte(`{"message_id":5,"source":"tareeqy_channel","text":"صره مغلق","ts":"yesterday-ish"}`))

	if store.EventCount() != 0 {
		t.Errorf("event count = %d, want 0 for a malformed timestamp", store.EventCount())
	}
}

func TestProcessPayloadDropsMalformedJSON(t *testing.T) {
	pipeline, store := testPipeline(t)

	processPayload(context.Background(), pipeline, []byte(`{not json`))

	if store.EventCount() != 0 {
		t.Errorf("event count = %d, want 0 for malformed JSON", store.EventCount())
	}
}
