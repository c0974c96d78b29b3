package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"QuantTerminal/internal/model"
)

// RecordAlert appends an alert event to the history. The history is
// append-only: rows are never updated or deleted.
func (s *Store) RecordAlert(evt *model.AlertEvent) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	sent := 0
	if evt.NotificationSent {
		sent = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`INSERT INTO alert_history (ticker, type, pnl_pct, price, timestamp, notification_sent)
		 VALUES (?,?,?,?,?,?)`,
		evt.Symbol, string(evt.Kind), evt.PctValue.String(), evt.Price.String(),
		evt.Timestamp.Unix(), sent,
	)
	if err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	evt.ID, _ = res.LastInsertId()
	return nil
}

// LastAlertTime returns when an alert of the given kind last fired for a
// symbol. ok is false when no such alert exists.
func (s *Store) LastAlertTime(symbol string, kind model.AlertKind) (t time.Time, ok bool, err error) {
	var ts int64
	row := s.db.QueryRow(
		`SELECT timestamp FROM alert_history
		 WHERE ticker = ? AND type = ?
		 ORDER BY timestamp DESC, id DESC LIMIT 1`,
		model.NormalizeSymbol(symbol), string(kind))
	switch err = row.Scan(&ts); err {
	case nil:
		return time.Unix(ts, 0), true, nil
	case sql.ErrNoRows:
		return time.Time{}, false, nil
	default:
		return time.Time{}, false, fmt.Errorf("last alert time: %w", err)
	}
}

// ListAlerts returns the most recent alert events, newest first.
func (s *Store) ListAlerts(limit int) ([]*model.AlertEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, ticker, type, pnl_pct, price, timestamp, notification_sent
		 FROM alert_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*model.AlertEvent
	for rows.Next() {
		var evt model.AlertEvent
		var kind, pctStr, priceStr string
		var ts int64
		var sent int
		if err := rows.Scan(&evt.ID, &evt.Symbol, &kind, &pctStr, &priceStr, &ts, &sent); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		evt.Kind = model.AlertKind(kind)
		if evt.PctValue, err = decimal.NewFromString(pctStr); err != nil {
			return nil, fmt.Errorf("parse pnl_pct %q: %w", pctStr, err)
		}
		if evt.Price, err = decimal.NewFromString(priceStr); err != nil {
			return nil, fmt.Errorf("parse price %q: %w", priceStr, err)
		}
		evt.Timestamp = time.Unix(ts, 0)
		evt.NotificationSent = sent == 1
		alerts = append(alerts, &evt)
	}
	return alerts, rows.Err()
}
