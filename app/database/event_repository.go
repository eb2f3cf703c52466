package database

import (
	"database/sql"
	"fmt"
)

var _ EventRepository = (*SQLEventRepository)(nil)

// SQLEventRepository handles database operations for the append-only
// per-user event history.
type SQLEventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) *SQLEventRepository {
	return &SQLEventRepository{db: db}
}

func (r *SQLEventRepository) HasEvent(login, eventID string) (bool, error) {
	var exists int
	err := r.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM events WHERE login = ? AND event_id = ?)
	`, login, eventID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}

	return exists == 1, nil
}

func (r *SQLEventRepository) InsertEvents(login string, events []NewEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The user row may not exist yet on a first-ever poll.
	if _, err := tx.Exec(`INSERT OR IGNORE INTO users (login) VALUES (?)`, login); err != nil {
		return fmt.Errorf("failed to ensure user row: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO events (login, event_id, type, created_at, payload)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, event := range events {
		if _, err := stmt.Exec(login, event.EventID, event.Type, event.CreatedAt.UTC(), event.Payload); err != nil {
			return fmt.Errorf("failed to insert event %s: %w", event.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}

	return nil
}

func (r *SQLEventRepository) GetEvents(login string) ([]Event, error) {
	rows, err := r.db.Query(`
		SELECT id, login, event_id, type, created_at, payload, fetched_at
		FROM events
		WHERE login = ?
		ORDER BY id
	`, login)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *SQLEventRepository) GetAllEvents() ([]Event, error) {
	rows, err := r.db.Query(`
		SELECT id, login, event_id, type, created_at, payload, fetched_at
		FROM events
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (r *SQLEventRepository) GetEventCount(login string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM events WHERE login = ?", login).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get event count: %w", err)
	}
	return count, nil
}

func (r *SQLEventRepository) GetTotalEventCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get total event count: %w", err)
	}
	return count, nil
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var event Event
		err := rows.Scan(
			&event.ID, &event.Login, &event.EventID, &event.Type,
			&event.CreatedAt, &event.Payload, &event.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}
