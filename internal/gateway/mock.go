package gateway

import (
	"context"
	"time"

	"QuantTerminal/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars map[string][]model.PriceBar
	Errs map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.PriceBar, error) {
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	bars, ok := m.Bars[symbol]
	if !ok {
		return nil, nil
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// BarsFromCloses builds a daily bar sequence from close prices, one bar per
// weekday-agnostic calendar day ending today. Convenient for tests.
func BarsFromCloses(closes []float64) []model.PriceBar {
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Date:   time.Now().AddDate(0, 0, -(len(closes) - i)),
			Open:   c,
			High:   c * 1.005,
			Low:    c * 0.995,
			Close:  c,
			Volume: 1000000,
		}
	}
	return bars
}
