package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// KVGet returns the value stored under key. The second return is false when
// the key is absent; callers treat absence the same as corruption — "no
// state yet" — so this never maps to an error.
func (db *DB) KVGet(key string) (string, bool, error) {
	var v string
	err := db.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: kv get %s: %w", key, err)
	}
	return v, true, nil
}

// KVSet stores value under key, replacing any previous value.
// Last write wins; there is no version check.
func (db *DB) KVSet(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("store: kv set %s: %w", key, err)
	}
	return nil
}
