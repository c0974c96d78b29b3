package gateway

import (
	"context"

	"QuantTerminal/internal/model"
)

// Fetcher defines the interface for retrieving daily price history.
// Implementations must tolerate symbols unknown to the provider and periods
// with no data by returning an empty slice, not an error.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	Name() string
}
