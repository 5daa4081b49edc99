package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteBackend stores snapshots in a single-file SQLite database, one row
// per key holding the full snapshot as a JSON blob. A Snapshot is a single
// artifact, so one table suffices.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// NewSQLiteBackend opens (creating if necessary) a SQLite-backed snapshot
// store at path. Use ":memory:" for an ephemeral database.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: failed to open sqlite connection: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("snapshot: failed to apply %q: %w", pragma, err)
		}
	}

	b := &SQLiteBackend{db: db, path: path}
	if err := b.createTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

func (b *SQLiteBackend) createTable(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT NOT NULL PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("snapshot: failed to create snapshots table: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Save(ctx context.Context, key string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: failed to marshal snapshot: %w", err)
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("snapshot: failed to save: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Load(ctx context.Context, key string) (Snapshot, error) {
	var data string
	err := b.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: failed to load: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: failed to unmarshal: %w", err)
	}
	return snap, nil
}

// Close releases the underlying database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
