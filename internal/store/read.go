package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Load returns the value saved under key.
// Returns ErrNotFound if the key has never been saved.
func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.conn()
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", key, err)
	}

	var value string
	err = db.QueryRowContext(ctx, `SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", key, err)
	}

	return []byte(value), nil
}

// Revision returns how many times key has been saved.
// Returns 0 (and no error) for keys that were never saved.
func (s *SQLite) Revision(ctx context.Context, key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.conn()
	if err != nil {
		return 0, fmt.Errorf("revision %q: %w", key, err)
	}

	var rev int64
	err = db.QueryRowContext(ctx, `SELECT revision FROM entries WHERE key = ?`, key).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("revision %q: %w", key, err)
	}
	return rev, nil
}

// Keys returns every saved key in binary order.
// Returns an empty slice (not nil) for an empty database.
func (s *SQLite) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.conn()
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT key FROM entries ORDER BY key COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}

	return keys, nil
}
