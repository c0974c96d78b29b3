package store

import (
	"fmt"
	"log"

	"QuantTerminal/internal/model"
)

// AddSymbol adds a ticker to the watchlist. Adding a symbol that is already
// present is a no-op, not an error.
func (s *Store) AddSymbol(symbol string) error {
	sym := model.NormalizeSymbol(symbol)
	if sym == "" {
		return fmt.Errorf("empty symbol")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO watchlist (ticker) VALUES (?)`, sym); err != nil {
		return fmt.Errorf("add symbol %s: %w", sym, err)
	}
	return nil
}

// RemoveSymbol removes a ticker from the watchlist. Removing an absent
// symbol is a no-op. Positions referencing the symbol are left untouched:
// the ledger persists independently of watchlist membership.
func (s *Store) RemoveSymbol(symbol string) error {
	sym := model.NormalizeSymbol(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM watchlist WHERE ticker = ?`, sym); err != nil {
		return fmt.Errorf("remove symbol %s: %w", sym, err)
	}
	return nil
}

// ListSymbols returns current watchlist membership in ticker order. This is
// the iteration order scans use, so scan output is stable across runs.
func (s *Store) ListSymbols() ([]string, error) {
	rows, err := s.db.Query(`SELECT ticker FROM watchlist ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// Seed populates the watchlist with the default symbols, but only when the
// table is empty so user removals survive restarts.
func (s *Store) Seed(symbols []string) error {
	existing, err := s.ListSymbols()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, sym := range symbols {
		if err := s.AddSymbol(sym); err != nil {
			return err
		}
	}
	log.Printf("[INFO] watchlist seeded with %d symbols", len(symbols))
	return nil
}
