// Package store persists bookings and catalogs in sqlite and publishes
// the full booking list on the change bus after every write.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"velamar/internal/events"
)

// Store wraps sql.DB with the scheduling schema.
type Store struct {
	*sql.DB
	logger zerolog.Logger
	bus    *events.Bus
	cache  *CatalogCache
}

// New opens the database at path, applies the schema and wires the
// change bus. cache may be nil to disable catalog caching.
func New(path string, logger zerolog.Logger, bus *events.Bus, cache *CatalogCache) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &Store{DB: db, logger: logger, bus: bus, cache: cache}, nil
}

// Bus exposes the change bus for subscribers.
func (s *Store) Bus() *events.Bus {
	return s.bus
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			title TEXT,
			department TEXT,
			status TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			note TEXT,
			parent_id TEXT,
			client_id TEXT,
			product_id TEXT,
			series_code TEXT,
			boarding_dock_id TEXT,
			disembark_dock_id TEXT,
			resource_kind TEXT,
			resource_name TEXT,
			reason TEXT,
			equipment TEXT,
			staff TEXT,
			financial TEXT,
			last_modified_at TEXT,
			last_modified_by TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_start ON bookings(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_product ON bookings(product_id)`,

		`CREATE TABLE IF NOT EXISTS equipment (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			preparation_time INTEGER NOT NULL DEFAULT 0,
			cleanup_time INTEGER NOT NULL DEFAULT 0,
			min_staff INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT 1
		)`,

		`CREATE TABLE IF NOT EXISTS professionals (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			priority INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			skills TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS skills (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			cost_per_hour REAL NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS docks (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			travel_time INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			department TEXT,
			default_equipment TEXT,
			default_staff TEXT,
			default_start_time TEXT,
			default_end_time TEXT,
			recurrence TEXT
		)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}
