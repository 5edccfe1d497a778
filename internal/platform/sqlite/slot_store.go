// Package sqlite implements the local slot storage on an SQLite file using
// sqlx and the mattn/go-sqlite3 driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/phrazzld/vokabel/internal/store"
)

// SlotStore persists named slots in a single SQLite table.
type SlotStore struct {
	db *sqlx.DB
}

var _ store.SlotStore = (*SlotStore)(nil)

type slotRow struct {
	Name      string    `db:"name"`
	Value     []byte    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Open connects to the database at path, creating parent directories and
// the schema as needed. ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*SlotStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SlotStore{db: db}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the slots table if it does not exist.
func (s *SlotStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS slots (
			name TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create slots table: %w", err)
	}
	return nil
}

// Read implements store.SlotStore.
func (s *SlotStore) Read(ctx context.Context, name string) ([]byte, error) {
	var row slotRow
	err := s.db.GetContext(ctx, &row, `SELECT name, value, updated_at FROM slots WHERE name = ?`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSlotNotFound
		}
		return nil, store.NewStoreError("slot", "read", name, err)
	}
	return row.Value, nil
}

// Write implements store.SlotStore.
func (s *SlotStore) Write(ctx context.Context, name string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, name, data, time.Now().UTC())
	if err != nil {
		return store.NewStoreError("slot", "write", name, err)
	}
	return nil
}

// Profiles lists the profiles that have a persisted entry list, sorted by name.
func (s *SlotStore) Profiles(ctx context.Context, entriesSuffix string) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		`SELECT name FROM slots WHERE name LIKE ? ORDER BY name`, "%:"+entriesSuffix)
	if err != nil {
		return nil, store.NewStoreError("slot", "list", entriesSuffix, err)
	}

	profiles := make([]string, 0, len(names))
	for _, n := range names {
		profiles = append(profiles, strings.TrimSuffix(n, ":"+entriesSuffix))
	}
	return profiles, nil
}

// Ping verifies the connection.
func (s *SlotStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SlotStore) Close() error {
	return s.db.Close()
}
