package database

import "time"

// NewEvent carries an event staged for insertion, before the database
// assigns its discovery-order rowid.
type NewEvent struct {
	EventID   string
	Type      string
	CreatedAt time.Time
	Payload   string
}

type UserRepository interface {
	GetUser(login string) (*User, error)
	GetUserCount() (int, error)

	// UpdatePollState upserts the polling bookkeeping after a poll attempt.
	UpdatePollState(login string, etag string, lastPolledAt, nextPollAt time.Time) error
}

type EventRepository interface {
	// HasEvent reports whether an event id was already observed for the
	// user. This is the membership test behind the pagination cutoff.
	HasEvent(login, eventID string) (bool, error)

	// InsertEvents appends staged events in the given order within a single
	// transaction. The whole batch fails on any duplicate event id.
	InsertEvents(login string, events []NewEvent) error

	GetEvents(login string) ([]Event, error)
	GetAllEvents() ([]Event, error)
	GetEventCount(login string) (int, error)
	GetTotalEventCount() (int, error)
}
