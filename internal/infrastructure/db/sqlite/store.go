// Package sqlite persists the client's two durable key-value entries, the
// bearer credential and the privacy-mode flag, in a local SQLite file so they
// survive process restarts.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	keyCredential  = "credential"
	keyPrivacyMode = "privacy_mode"
)

// Store is a dumb persisted slot: no network, no validation. Values are
// replaced whole so a reader never observes a partial credential.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if needed) the settings database at path and runs the
// schema migration. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping settings db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("migrate settings db: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Credential returns the stored bearer credential, or "" when none is stored.
func (s *Store) Credential() (string, error) {
	return s.get(keyCredential)
}

// SetCredential replaces the stored credential atomically.
func (s *Store) SetCredential(credential string) error {
	return s.set(keyCredential, credential)
}

// ClearCredential removes the stored credential. Clearing an already empty
// slot is not an error.
func (s *Store) ClearCredential() error {
	_, err := s.conn.Exec(`DELETE FROM settings WHERE key = ?`, keyCredential)
	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// PrivacyMode reports the persisted privacy flag, defaulting to false.
func (s *Store) PrivacyMode() (bool, error) {
	v, err := s.get(keyPrivacyMode)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SetPrivacyMode persists the privacy flag. The flag survives logout.
func (s *Store) SetPrivacyMode(enabled bool) error {
	v := "false"
	if enabled {
		v = "true"
	}
	return s.set(keyPrivacyMode, v)
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.conn.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read setting %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.conn.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}
