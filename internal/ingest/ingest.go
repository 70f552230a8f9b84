// Package ingest turns raw traffic messages into stored status events:
// classify the text, resolve the checkpoints it mentions and append one
// event per match to the history.
package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/fence"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/history"
	"github.com/omaimashtiew/Tareeqy-public-view/internal/status"
)

// RawMessage is the payload the upstream collector hands us. MessageID is
// the upstream channel's message id when the feed carries one; zero lets
// the store assign its own.
type RawMessage struct {
	MessageID int64     `json:"message_id"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	Time      time.Time `json:"ts"`
}

// Result summarizes what one message produced.
type Result struct {
	Status    status.Label
	Fences    []fence.Fence
	Inserted  int
	Duplicate int
	MessageID int64
}

// statusImages mirrors the display assets the frontend serves per status.
var statusImages = map[status.Label]string{
	status.Open:      "/static/images/open.png",
	status.Closed:    "/static/images/closed.png",
	status.SevereJam: "/static/images/traffic.png",
}

// Pipeline wires the classifier, the matcher and the store together.
type Pipeline struct {
	Store    history.Store
	Matcher  fence.Matcher
	Taxonomy status.Taxonomy
	Location *time.Location
}

// ProcessMessage runs one raw message through the full pipeline. Every
// message is saved for provenance, even when it classifies as unknown or
// matches no checkpoint; only classified matches produce status events.
// Re-processing the same message at the same timestamp is a no-op on the
// event history.
func (p *Pipeline) ProcessMessage(ctx context.Context, raw RawMessage) (Result, error) {
	if strings.TrimSpace(raw.Text) == "" {
		return Result{Status: status.Unknown}, fmt.Errorf("ingest: empty message")
	}

	at := raw.Time
	if at.IsZero() {
		at = time.Now()
	}
	if p.Location != nil {
		at = at.In(p.Location)
	}

	msgID, err := p.Store.SaveMessage(ctx, history.Message{
		ID:     raw.MessageID,
		Source: raw.Source,
		Text:   raw.Text,
		Time:   at,
		Hash:   history.HashText(raw.Text),
	})
	if err != nil {
		return Result{}, fmt.Errorf("ingest: save message: %w", err)
	}

	res := Result{MessageID: msgID, Status: status.Classify(raw.Text, p.Taxonomy)}
	if res.Status == status.Unknown {
		return res, nil
	}

	fences, err := p.Store.Fences(ctx)
	if err != nil {
		return res, fmt.Errorf("ingest: list fences: %w", err)
	}
	res.Fences = p.Matcher.FindFences(raw.Text, fences)
	if len(res.Fences) == 0 {
		log.Printf("no fence matched for message id=%d", msgID)
		return res, nil
	}

	for _, f := range res.Fences {
		inserted, err := p.Store.Append(ctx, history.Event{
			FenceID:   f.ID,
			Status:    res.Status,
			Time:      at,
			Image:     statusImages[res.Status],
			MessageID: msgID,
		})
		if err != nil {
			return res, fmt.Errorf("ingest: append event for fence %d: %w", f.ID, err)
		}
		if inserted {
			res.Inserted++
		} else {
			res.Duplicate++
		}
	}
	return res, nil
}
