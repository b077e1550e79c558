// Package store persists validated account links keyed by chat-platform
// user id.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Link is one user's stored account link. A token only ever lands here
// after the API confirmed it belongs to Username.
type Link struct {
	UserID    string
	Token     string
	Username  string
	UpdatedAt time.Time
}

// Store manages persistent account links using SQLite.
type Store struct {
	db *sql.DB
}

// Open creates a link store backed by SQLite at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection keeps in-memory databases consistent and is
	// plenty for this workload; per-key writes stay serialized.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS links (
			user_id TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			username TEXT NOT NULL,
			updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the stored link for a user, or nil if the user has not
// linked an account. Absence is not an error.
func (s *Store) Get(ctx context.Context, userID string) (*Link, error) {
	query := `
		SELECT user_id, token, username, updated_at
		FROM links
		WHERE user_id = ?
	`

	var link Link
	var updatedAt int64
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&link.UserID,
		&link.Token,
		&link.Username,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query link: %w", err)
	}

	link.UpdatedAt = time.Unix(updatedAt, 0)
	return &link, nil
}

// Put stores or replaces a user's link. Latest write wins; at most one
// link is kept per user id.
func (s *Store) Put(ctx context.Context, userID, token, username string) error {
	query := `
		INSERT INTO links (user_id, token, username, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			token = excluded.token,
			username = excluded.username,
			updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, userID, token, username, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to store link: %w", err)
	}
	return nil
}

// Delete removes a user's link. Removing an absent link is a no-op.
func (s *Store) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM links WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}
