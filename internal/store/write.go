package store

import (
	"context"
	"fmt"
)

// Save upserts the value for key.
// An existing row is overwritten and its revision incremented; a new row
// starts at revision 1.
func (s *SQLite) Save(ctx context.Context, key string, value []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.conn()
	if err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO entries (key, value, revision)
		VALUES (?, ?, 1)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			revision = entries.revision + 1
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}

	return nil
}
