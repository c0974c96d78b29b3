package notifier

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"QuantTerminal/internal/model"
	"QuantTerminal/internal/scan"
)

func TestFormatReportLines(t *testing.T) {
	rsi := 71.0
	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	results := []*model.ScanResult{
		{Symbol: "AAPL", CurrentPrice: 105, PreviousClose: 100, PctChange: 5, Classification: model.ClassAbnormalUp, RSI14: &rsi, MACDCross: model.CrossBullish},
		{Symbol: "TSLA", CurrentPrice: 98, PreviousClose: 100, PctChange: -2, Classification: model.ClassNeutral},
	}
	alerts := []*model.AlertEvent{
		{Symbol: "AAPL", Kind: model.KindAbnormalMove, PctValue: decimal.NewFromInt(5), Price: decimal.NewFromInt(105)},
	}
	failures := []scan.Failure{
		{Symbol: "NOPE", Classification: model.ClassDataUnavailable, Reason: "no price data"},
	}

	out := FormatReport(results, alerts, failures, at)

	assert.Contains(t, out, "2026-03-02 09:30")
	assert.Contains(t, out, "AAPL: 105.00 (+5.00%) [ABNORMAL_UP] RSI=71 MACD=BULLISH")
	assert.Contains(t, out, "TSLA: 98.00 (-2.00%) [NEUTRAL]")
	assert.Contains(t, out, "AAPL: 5.00% at 105.00")
	assert.Contains(t, out, "NOPE: no price data")

	// Identical input renders identically.
	assert.Equal(t, out, FormatReport(results, alerts, failures, at))
}

func TestFormatReportEmptyWatchlist(t *testing.T) {
	out := FormatReport(nil, nil, nil, time.Now())
	assert.Contains(t, out, "Watchlist is empty.")
}

func TestFormatWatchlist(t *testing.T) {
	assert.Equal(t, "Watchlist is empty.", FormatWatchlist(nil))
	out := FormatWatchlist([]string{"AAPL", "NVDA"})
	assert.Contains(t, out, "(2)")
	assert.Contains(t, out, "• AAPL")
	assert.Contains(t, out, "• NVDA")
}

func TestFormatPositions(t *testing.T) {
	assert.Equal(t, "No open positions.", FormatPositions(nil))
	out := FormatPositions([]*model.Position{{
		Symbol:     "NVDA",
		EntryPrice: decimal.RequireFromString("120.50"),
		Quantity:   decimal.NewFromInt(10),
		OpenedAt:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}})
	assert.Contains(t, out, "NVDA: 10 @ 120.50 (2026-01-15)")
}

func TestFormatAlertHistory(t *testing.T) {
	assert.Equal(t, "No alerts recorded.", FormatAlertHistory(nil))
	out := FormatAlertHistory([]*model.AlertEvent{{
		Symbol:    "TSLA",
		Kind:      model.KindStopLoss,
		PctValue:  decimal.NewFromInt(-4),
		Price:     decimal.NewFromInt(190),
		Timestamp: time.Date(2026, 2, 1, 14, 0, 0, 0, time.UTC),
		NotificationSent: true,
	}})
	assert.Contains(t, out, "TSLA STOP_LOSS -4.00% at 190.00 (sent)")
}

func TestFormatYTD(t *testing.T) {
	out := FormatYTD([]scan.YTDEntry{
		{Symbol: "AAPL", FirstClose: 100, LastClose: 112, ReturnPct: 12},
	}, []scan.Failure{{Symbol: "NOPE", Reason: "no price data"}})
	assert.Contains(t, out, "AAPL: +12.00%")
	assert.Contains(t, out, "NOPE: no price data")
}
