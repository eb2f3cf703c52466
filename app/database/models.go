package database

import "time"

// User is a tracked user together with its persisted polling bookkeeping.
// A row is created on the first successful poll and updated after every
// poll attempt; it is never deleted except by an external data reset.
type User struct {
	Login        string
	ETag         string     // conditional-request token from the last 200 response
	LastPolledAt *time.Time // nil before the first successful poll
	NextPollAt   *time.Time // earliest time the next poll is allowed
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Event is one observed event in a user's public stream. Rows are
// append-only and immutable; insertion order (the rowid) preserves
// discovery order, which for the upstream feed is newest first per page.
type Event struct {
	ID        int64
	Login     string
	EventID   string // unique per user stream; dedup key
	Type      string
	CreatedAt time.Time
	Payload   string // raw JSON as returned by the API
	FetchedAt time.Time
}
