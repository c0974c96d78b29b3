package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is one simulated buy. The ledger is append-only: repeated buys of
// the same symbol are independent rows and never net or average. The current
// holding for a symbol is the most recently appended row.
type Position struct {
	ID         int64           `json:"id,omitempty"`
	Symbol     string          `json:"symbol"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	Quantity   decimal.Decimal `json:"quantity"`
	OpenedAt   time.Time       `json:"opened_at"`
}

// PositionSummary aggregates every ledger row for one symbol: total shares
// and the volume-weighted average cost across all buys.
type PositionSummary struct {
	Symbol        string          `json:"symbol"`
	Lots          int             `json:"lots"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	AvgEntryPrice decimal.Decimal `json:"avg_entry_price"`
}
