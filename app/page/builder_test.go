package page

import (
	"strings"
	"testing"
	"time"

	"github.com/kbarbary/ghdash/app/database"
)

func TestBuilder_RendersStoredEvents(t *testing.T) {
	builder, err := NewBuilder()
	if err != nil {
		t.Fatalf("Failed to create builder: %v", err)
	}
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	builder.now = func() time.Time { return now }

	stored := []database.Event{
		{
			Login:     "alice",
			EventID:   "1",
			Type:      "WatchEvent",
			CreatedAt: now.Add(-2 * time.Hour),
			Payload:   `{"type":"WatchEvent","actor":{"login":"alice"},"repo":{"name":"bob/project"},"created_at":"2026-01-15T10:00:00Z"}`,
		},
		{
			Login:     "alice",
			EventID:   "2",
			Type:      "UnknownEvent",
			CreatedAt: now.Add(-time.Hour),
			Payload:   `{"type":"UnknownEvent","created_at":"2026-01-15T11:00:00Z"}`,
		},
	}

	html, err := builder.Run(stored)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(html, "starred") || !strings.Contains(html, "bob/project") {
		t.Errorf("Expected watch event rendered, got:\n%s", html)
	}
	if strings.Contains(html, "UnknownEvent") {
		t.Error("Unknown event types must be skipped")
	}
	if !strings.Contains(html, "2 hours ago") {
		t.Errorf("Expected timeago in output, got:\n%s", html)
	}
}

func TestBuilder_AggregateRangeRendersEnDash(t *testing.T) {
	builder, err := NewBuilder()
	if err != nil {
		t.Fatalf("Failed to create builder: %v", err)
	}
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	builder.now = func() time.Time { return now }

	push := func(id, createdAt string) database.Event {
		return database.Event{
			Login:   "alice",
			EventID: id,
			Type:    "PushEvent",
			Payload: `{"type":"PushEvent","actor":{"login":"alice"},"repo":{"name":"alice/project"},` +
				`"payload":{"distinct_size":1,"commits":[{"message":"work"}]},"created_at":"` + createdAt + `"}`,
		}
	}
	stored := []database.Event{
		push("1", "2026-01-15T10:00:00Z"),
		push("2", "2026-01-15T07:00:00Z"),
	}

	html, err := builder.Run(stored)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(html, "2 hours ago – 5 hours ago") {
		t.Errorf("Expected en dash range in output, got:\n%s", html)
	}
	if strings.Contains(html, "ndash") {
		t.Errorf("Range must not render as an escaped entity, got:\n%s", html)
	}
}

func TestBuilder_SkipsUndecodablePayloads(t *testing.T) {
	builder, err := NewBuilder()
	if err != nil {
		t.Fatalf("Failed to create builder: %v", err)
	}

	stored := []database.Event{
		{Login: "alice", EventID: "1", Type: "WatchEvent", Payload: "{not json"},
	}

	if _, err := builder.Run(stored); err != nil {
		t.Errorf("A bad stored payload must not fail the page: %v", err)
	}
}

func TestBuilder_EmptyStore(t *testing.T) {
	builder, err := NewBuilder()
	if err != nil {
		t.Fatalf("Failed to create builder: %v", err)
	}

	html, err := builder.Run(nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(html, "no events yet") {
		t.Errorf("Expected empty-state message, got:\n%s", html)
	}
}
