// Package page renders the accumulated event history into a static HTML
// dashboard. It consumes stored events and has no fetch-side logic.
package page

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kbarbary/ghdash/app/database"
)

//go:embed templates/index.html
var templateFS embed.FS

type Builder struct {
	tmpl *template.Template
	now  func() time.Time
}

func NewBuilder() (*Builder, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return &Builder{tmpl: tmpl, now: time.Now}, nil
}

// Run renders the page for the given stored events: decode, drop merge
// pushes, aggregate push streaks, summarize per type, newest first.
func (b *Builder) Run(stored []database.Event) (string, error) {
	events := decodeAll(stored)
	events = filterMerges(events)
	events = aggregatePushes(events)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})

	now := b.now()
	var summaries []Summary
	for _, e := range events {
		parse, ok := summarizers[e.Type]
		if !ok {
			continue
		}
		summary := parse(e)
		if summary == nil {
			continue
		}
		summary.Time = e.CreatedAt
		summary.TimeAgo = timeAgo(e, now)
		summaries = append(summaries, *summary)
	}

	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, map[string]any{"Events": summaries}); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}

	return sb.String(), nil
}

// WriteFile renders the page and writes it to path.
func (b *Builder) WriteFile(path string, stored []database.Event) error {
	html, err := b.Run(stored)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}

	return nil
}

// decodeAll decodes stored payloads, skipping any that no longer decode
// rather than failing the whole page.
func decodeAll(stored []database.Event) []event {
	events := make([]event, 0, len(stored))
	for _, row := range stored {
		var e event
		if err := json.Unmarshal([]byte(row.Payload), &e); err != nil {
			slog.Warn("Skipping undecodable stored event", "user", row.Login, "event_id", row.EventID, "error", err)
			continue
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = row.CreatedAt
		}
		events = append(events, e)
	}
	return events
}
