package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ UserRepository = (*SQLUserRepository)(nil)

// SQLUserRepository handles database operations for tracked users.
type SQLUserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

func (r *SQLUserRepository) GetUser(login string) (*User, error) {
	var user User
	err := r.db.QueryRow(`
		SELECT login, etag, last_polled_at, next_poll_at, created_at, updated_at
		FROM users
		WHERE login = ?
	`, login).Scan(
		&user.Login, &user.ETag, &user.LastPolledAt, &user.NextPollAt,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *SQLUserRepository) GetUserCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get user count: %w", err)
	}
	return count, nil
}

func (r *SQLUserRepository) UpdatePollState(login string, etag string, lastPolledAt, nextPollAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO users (login, etag, last_polled_at, next_poll_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (login) DO UPDATE SET
			etag = excluded.etag,
			last_polled_at = excluded.last_polled_at,
			next_poll_at = excluded.next_poll_at,
			updated_at = CURRENT_TIMESTAMP
	`, login, etag, lastPolledAt.UTC(), nextPollAt.UTC())

	if err != nil {
		return fmt.Errorf("failed to update poll state: %w", err)
	}

	return nil
}
