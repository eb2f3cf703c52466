package github

import (
	"encoding/json"
	"time"
)

// RateLimit is the quota snapshot advertised by the API on every response.
type RateLimit struct {
	Known     bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Event is one entry of a user's public event stream. Raw keeps the
// payload exactly as returned so the render step can decode what it needs.
type Event struct {
	ID        string
	Type      string
	CreatedAt time.Time
	Raw       json.RawMessage
}

// EventsPage is the result of fetching a single page of a user's stream.
type EventsPage struct {
	Events       []Event
	NotModified  bool          // 304 response to a conditional request
	ETag         string        // empty on 304 (the caller keeps its token)
	PollInterval time.Duration // server's X-Poll-Interval hint, 0 if absent
	HasNext      bool
	NextPage     int
	Rate         RateLimit
}

// rawEvent is the subset of the payload the fetch engine needs; everything
// else rides along untouched in Raw.
type rawEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}
