// Package store persists the watchlist, the simulated-trade ledger, and the
// alert history in an embedded SQLite database. One Store is opened at
// startup and shared for the process lifetime.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle. The mutex serializes writes: SQLite allows
// a single writer and the scan pipeline may append alerts while the HTTP
// API mutates the watchlist.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so scan reads do not block API writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS watchlist (
			ticker TEXT PRIMARY KEY
		)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker      TEXT NOT NULL,
			entry_price TEXT NOT NULL,
			shares      TEXT NOT NULL,
			timestamp   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ticker ON trades(ticker)`,

		`CREATE TABLE IF NOT EXISTS positions_current (
			ticker      TEXT PRIMARY KEY,
			trade_id    INTEGER NOT NULL,
			entry_price TEXT NOT NULL,
			shares      TEXT NOT NULL,
			timestamp   INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS alert_history (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker            TEXT NOT NULL,
			type              TEXT NOT NULL,
			pnl_pct           TEXT,
			price             TEXT,
			timestamp         INTEGER NOT NULL,
			notification_sent INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_ticker_type ON alert_history(ticker, type, timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
