package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuantTerminal/internal/gateway"
	"QuantTerminal/internal/model"
	"QuantTerminal/internal/notifier"
	"QuantTerminal/internal/scan"
	"QuantTerminal/internal/store"
)

type captureSender struct {
	sent []string
}

func (c *captureSender) Send(_ context.Context, text string) error {
	c.sent = append(c.sent, text)
	return nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *captureSender) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	fetcher := &gateway.MockFetcher{
		Bars: map[string][]model.PriceBar{
			"AAPL": gateway.BarsFromCloses([]float64{100, 103}),
		},
	}

	gw := gateway.New(fetcher, nil)
	ev := scan.NewEvaluator(gw, scan.Config{
		SensitivityPct: 2.0,
		TakeProfitPct:  5.0,
		StopLossPct:    3.0,
		LookbackDays:   60,
		Workers:        2,
		SymbolTimeout:  time.Second,
		ScanTimeout:    5 * time.Second,
	}, nil)
	sender := &captureSender{}
	d := notifier.NewDispatcher(sender, st, 0, nil)
	return NewScheduler(context.Background(), ev, st, d), sender
}

func TestRunScanDispatchesReport(t *testing.T) {
	s, sender := newTestScheduler(t)
	require.NoError(t, s.Store.AddSymbol("AAPL"))

	sum, report, err := s.RunScan(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sum)
	require.Len(t, sum.Results, 1)
	assert.Contains(t, report, "AAPL")
	require.Len(t, sender.sent, 1)
}

func TestHandleCommandWatchlist(t *testing.T) {
	s, _ := newTestScheduler(t)
	require.NoError(t, s.Store.AddSymbol("AAPL"))

	reply := s.HandleCommand("/watchlist")
	assert.Contains(t, reply, "AAPL")
}

func TestHandleCommandAddRemove(t *testing.T) {
	s, _ := newTestScheduler(t)

	reply := s.HandleCommand("/add nvda")
	assert.Contains(t, reply, "NVDA")
	symbols, err := s.Store.ListSymbols()
	require.NoError(t, err)
	assert.Equal(t, []string{"NVDA"}, symbols)

	s.HandleCommand("/remove nvda")
	symbols, err = s.Store.ListSymbols()
	require.NoError(t, err)
	assert.Empty(t, symbols)
}

func TestHandleCommandUnknownListsUsage(t *testing.T) {
	s, _ := newTestScheduler(t)
	reply := s.HandleCommand("/help")
	assert.Contains(t, reply, "/scan")
	assert.Contains(t, reply, "/ytd")
}
