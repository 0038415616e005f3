package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Get returns the value stored under key. ok is false when the key is absent.
func (d *DB) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = d.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing whatever was there.
func (d *DB) Put(ctx context.Context, key, value string) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Removing a missing key is not an error.
func (d *DB) Delete(ctx context.Context, key string) error {
	if _, err := d.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting key %s: %w", key, err)
	}
	return nil
}
