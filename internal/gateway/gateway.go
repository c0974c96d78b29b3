// Package gateway wraps the external price-history capability and
// normalizes what comes back: ascending date order, null bars dropped,
// empty results tolerated.
package gateway

import (
	"context"
	"fmt"
	"sort"
	"time"

	"QuantTerminal/internal/metrics"
	"QuantTerminal/internal/model"
)

// Gateway fetches and normalizes daily price series.
type Gateway struct {
	fetcher Fetcher
	metrics *metrics.Metrics
}

// New creates a Gateway around the given fetcher. metrics may be nil.
func New(fetcher Fetcher, m *metrics.Metrics) *Gateway {
	return &Gateway{fetcher: fetcher, metrics: m}
}

// SourceName reports the underlying provider name.
func (g *Gateway) SourceName() string { return g.fetcher.Name() }

// FetchSeries retrieves up to `days` daily bars for symbol and returns a
// normalized series. An empty series is a valid result (unknown symbol or
// no data in the window); only transport and decode problems are errors.
func (g *Gateway) FetchSeries(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	sym := model.NormalizeSymbol(symbol)

	start := time.Now()
	bars, err := g.fetcher.FetchDailyBars(ctx, sym, days)
	if g.metrics != nil {
		g.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars for %s: %w", sym, err)
	}

	return &model.PriceSeries{
		Symbol:    sym,
		Bars:      normalizeBars(bars),
		FetchedAt: time.Now(),
	}, nil
}

// normalizeBars drops null bars (holidays, provider gaps) and sorts the
// remainder chronologically.
func normalizeBars(bars []model.PriceBar) []model.PriceBar {
	out := make([]model.PriceBar, 0, len(bars))
	for _, b := range bars {
		if b.Open == 0 && b.High == 0 && b.Low == 0 && b.Close == 0 {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
