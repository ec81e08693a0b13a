// Package database persists the media catalog in a SQLite-backed
// key/value table.
//
// The catalog is stored as one JSON-serialized array under a single
// key, written whole on every mutation. SQLite gives us durable,
// atomic snapshot writes without inventing a file format.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"media-player/internal/catalog"
	"media-player/internal/logging"
	"media-player/internal/metrics"
)

const defaultTimeout = 5 * time.Second

// catalogKey is the single durable storage key holding the catalog.
const catalogKey = "catalog"

// SnapshotStore implements catalog.Snapshot on top of SQLite.
type SnapshotStore struct {
	db *sql.DB
}

// New opens (or creates) the snapshot database at dbPath. The parent
// directory must already exist; use startup.LoadConfig to validate it.
func New(ctx context.Context, dbPath string) (*SnapshotStore, error) {
	// WAL keeps snapshot writes from blocking readers; busy_timeout
	// avoids spurious "database is locked" errors.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("closing database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &SnapshotStore{db: db}
	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("closing database after schema failure: %v", closeErr)
		}
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logging.Info("database: snapshot store ready at %s", dbPath)
	return s, nil
}

func (s *SnapshotStore) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Save writes the whole catalog under the catalog key.
func (s *SnapshotStore) Save(entries []catalog.Entry) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("save_catalog", start, err) }()

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, value, updated_at)
		VALUES (?, ?, strftime('%s', 'now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, catalogKey, string(data))
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the persisted catalog. A missing snapshot yields an
// empty catalog, not an error.
func (s *SnapshotStore) Load() ([]catalog.Entry, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("load_catalog", start, err) }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var value string
	err = s.db.QueryRowContext(ctx,
		"SELECT value FROM snapshots WHERE key = ?", catalogKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var entries []catalog.Entry
	if err = json.Unmarshal([]byte(value), &entries); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func recordQuery(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
