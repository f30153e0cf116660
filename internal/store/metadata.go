package store

import (
	"database/sql"
	"strconv"

	"github.com/thurbeen/thurbox/internal/thurerr"
)

const sessionCounterKey = "session_counter"

// NextSessionCounter increments and returns the monotonic counter used to
// name new sessions ("Session 3"). MergeSessionCounter holds the
// max(local, remote) merge rule; internal/sync does not call it.
func (s *Store) NextSessionCounter() (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, thurerr.StoreUnavailable("failed to begin transaction", err)
	}
	current, err := getMetadataInt(tx, sessionCounterKey)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	next := current + 1
	if err := setMetadataInt(tx, sessionCounterKey, next); err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, thurerr.StoreUnavailable("failed to commit counter", err)
	}
	return next, nil
}

// MergeSessionCounter applies the max(local, remote) merge rule to the
// session counter on an incoming sync change-set.
func (s *Store) MergeSessionCounter(remote int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return thurerr.StoreUnavailable("failed to begin transaction", err)
	}
	current, err := getMetadataInt(tx, sessionCounterKey)
	if err != nil {
		tx.Rollback()
		return err
	}
	merged := current
	if remote > merged {
		merged = remote
	}
	if err := setMetadataInt(tx, sessionCounterKey, merged); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// GetMetadata reads an arbitrary string value from the metadata table.
func (s *Store) GetMetadata(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, thurerr.StoreUnavailable("failed to read metadata", err)
	}
	return value, true, nil
}

// SetMetadata writes an arbitrary string value to the metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return thurerr.StoreUnavailable("failed to write metadata", err)
	}
	return nil
}

func getMetadataInt(tx *sql.Tx, key string) (int, error) {
	var raw string
	err := tx.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, thurerr.StoreUnavailable("failed to read counter", err)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, thurerr.StoreUnavailable("failed to parse counter", err)
	}
	return v, nil
}

func setMetadataInt(tx *sql.Tx, key string, value int) error {
	_, err := tx.Exec(
		`INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, strconv.Itoa(value),
	)
	if err != nil {
		return thurerr.StoreUnavailable("failed to write counter", err)
	}
	return nil
}
