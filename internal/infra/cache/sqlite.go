package cache

import (
	"context"
	"database/sql"
	"time"
)

// SQLiteStore persists cache entries in the ai_cache table (see the
// migrations in internal/infra/sqlite). This is the default backend: the
// cache survives restarts and lives alongside the rest of the app's data.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store over an already-migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the cached payload, treating any query error as a miss.
func (s *SQLiteStore) Get(ctx context.Context, fingerprint string) ([]byte, bool) {
	var payload []byte
	row := s.db.QueryRowContext(ctx, "SELECT payload FROM ai_cache WHERE fingerprint = ?", fingerprint)
	if err := row.Scan(&payload); err != nil {
		return nil, false
	}
	return payload, true
}

// Put upserts the payload; overlapping writers are last-write-wins. Write
// errors are swallowed — next read regenerates.
func (s *SQLiteStore) Put(ctx context.Context, fingerprint string, payload []byte) {
	_, _ = s.db.ExecContext(ctx, `
		INSERT INTO ai_cache (fingerprint, payload, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at
	`, fingerprint, payload, time.Now().UTC().Format(time.RFC3339))
}
