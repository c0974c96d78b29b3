package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuantTerminal/internal/model"
)

func TestFetchSeries_NormalizesOrderAndNullBars(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2026, 8, n, 0, 0, 0, 0, time.UTC) }
	fetcher := &MockFetcher{
		Bars: map[string][]model.PriceBar{
			"AAPL": {
				{Date: day(3), Open: 101, High: 102, Low: 100, Close: 101.5},
				{Date: day(2)}, // null bar (holiday), must be dropped
				{Date: day(1), Open: 100, High: 101, Low: 99, Close: 100.5},
			},
		},
	}
	g := New(fetcher, nil)

	series, err := g.FetchSeries(context.Background(), " aapl ", 30)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", series.Symbol)
	require.Equal(t, 2, series.Len())
	assert.True(t, series.Bars[0].Date.Before(series.Bars[1].Date))
	assert.Equal(t, 101.5, series.LastClose())
}

func TestFetchSeries_UnknownSymbolIsEmptyNotError(t *testing.T) {
	g := New(&MockFetcher{}, nil)

	series, err := g.FetchSeries(context.Background(), "NOPE", 30)
	require.NoError(t, err)
	assert.Equal(t, 0, series.Len())
	assert.Equal(t, 0.0, series.LastClose())
}
