package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLBackend stores snapshots in a MySQL/MariaDB table, for production
// runs that need to survive process restarts or share state across workers.
// DSN format: "user:password@tcp(host:port)/dbname?parseTime=true".
type MySQLBackend struct {
	db *sql.DB
}

// NewMySQLBackend opens a MySQL-backed snapshot store and ensures its table
// exists.
func NewMySQLBackend(dsn string) (*MySQLBackend, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("snapshot: failed to open mysql connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	b := &MySQLBackend{db: db}
	if err := b.createTable(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

func (b *MySQLBackend) createTable(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			snapshot_key VARCHAR(255) NOT NULL PRIMARY KEY,
			data LONGTEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("snapshot: failed to create snapshots table: %w", err)
	}
	return nil
}

func (b *MySQLBackend) Save(ctx context.Context, key string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: failed to marshal snapshot: %w", err)
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO snapshots (snapshot_key, data) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE data = VALUES(data)
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("snapshot: failed to save: %w", err)
	}
	return nil
}

func (b *MySQLBackend) Load(ctx context.Context, key string) (Snapshot, error) {
	var data string
	err := b.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE snapshot_key = ?`, key).Scan(&data)
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

// Close releases the underlying connection pool.
func (b *MySQLBackend) Close() error {
	return b.db.Close()
}
