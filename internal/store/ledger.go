package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"QuantTerminal/internal/model"
)

// AppendPosition appends a buy to the trades ledger and refreshes the
// positions_current materialized view in the same transaction, so "current
// holding" never needs a full ledger scan.
func (s *Store) AppendPosition(p *model.Position) error {
	p.Symbol = model.NormalizeSymbol(p.Symbol)
	if p.Symbol == "" {
		return fmt.Errorf("empty symbol")
	}
	if p.OpenedAt.IsZero() {
		p.OpenedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin append position: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO trades (ticker, entry_price, shares, timestamp) VALUES (?,?,?,?)`,
		p.Symbol, p.EntryPrice.String(), p.Quantity.String(), p.OpenedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("trade id: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO positions_current (ticker, trade_id, entry_price, shares, timestamp)
		 VALUES (?,?,?,?,?)
		 ON CONFLICT(ticker) DO UPDATE SET
			trade_id = excluded.trade_id,
			entry_price = excluded.entry_price,
			shares = excluded.shares,
			timestamp = excluded.timestamp`,
		p.Symbol, id, p.EntryPrice.String(), p.Quantity.String(), p.OpenedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("refresh current position: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append position: %w", err)
	}
	p.ID = id
	return nil
}

// CurrentPosition returns the most recently appended position for a symbol,
// or nil when the symbol has no ledger rows.
func (s *Store) CurrentPosition(symbol string) (*model.Position, error) {
	sym := model.NormalizeSymbol(symbol)
	row := s.db.QueryRow(
		`SELECT trade_id, ticker, entry_price, shares, timestamp
		 FROM positions_current WHERE ticker = ?`, sym)
	p, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current position %s: %w", sym, err)
	}
	return p, nil
}

// CurrentPositions returns the latest position per symbol, in ticker order.
func (s *Store) CurrentPositions() ([]*model.Position, error) {
	rows, err := s.db.Query(
		`SELECT trade_id, ticker, entry_price, shares, timestamp
		 FROM positions_current ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("current positions: %w", err)
	}
	defer rows.Close()

	var positions []*model.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// AggregatePosition sums every ledger row for a symbol: lot count, total
// quantity, and volume-weighted average cost. Returns nil when the symbol
// has no trades. Note the scan PnL contract deliberately uses the latest
// row, not this average.
func (s *Store) AggregatePosition(symbol string) (*model.PositionSummary, error) {
	sym := model.NormalizeSymbol(symbol)
	rows, err := s.db.Query(
		`SELECT entry_price, shares FROM trades WHERE ticker = ? ORDER BY id`, sym)
	if err != nil {
		return nil, fmt.Errorf("aggregate position %s: %w", sym, err)
	}
	defer rows.Close()

	summary := &model.PositionSummary{Symbol: sym}
	cost := decimal.Zero
	for rows.Next() {
		var priceStr, sharesStr string
		if err := rows.Scan(&priceStr, &sharesStr); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("parse entry price %q: %w", priceStr, err)
		}
		shares, err := decimal.NewFromString(sharesStr)
		if err != nil {
			return nil, fmt.Errorf("parse shares %q: %w", sharesStr, err)
		}
		summary.Lots++
		summary.TotalQuantity = summary.TotalQuantity.Add(shares)
		cost = cost.Add(price.Mul(shares))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if summary.Lots == 0 {
		return nil, nil
	}
	if !summary.TotalQuantity.IsZero() {
		summary.AvgEntryPrice = cost.Div(summary.TotalQuantity).Round(8)
	}
	return summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosition(row rowScanner) (*model.Position, error) {
	var p model.Position
	var priceStr, sharesStr string
	var ts int64
	if err := row.Scan(&p.ID, &p.Symbol, &priceStr, &sharesStr, &ts); err != nil {
		return nil, err
	}
	var err error
	if p.EntryPrice, err = decimal.NewFromString(priceStr); err != nil {
		return nil, fmt.Errorf("parse entry price %q: %w", priceStr, err)
	}
	if p.Quantity, err = decimal.NewFromString(sharesStr); err != nil {
		return nil, fmt.Errorf("parse shares %q: %w", sharesStr, err)
	}
	p.OpenedAt = time.Unix(ts, 0)
	return &p, nil
}
