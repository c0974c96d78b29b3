package notifier

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuantTerminal/internal/model"
	"QuantTerminal/internal/scan"
	"QuantTerminal/internal/store"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func summaryWithAlert(kind model.AlertKind) *scan.Summary {
	return &scan.Summary{
		RunID:     "test-run",
		StartedAt: time.Now(),
		Results: []*model.ScanResult{{
			Symbol:         "AAPL",
			CurrentPrice:   105,
			PreviousClose:  100,
			PctChange:      5,
			Classification: model.ClassAbnormalUp,
		}},
		Alerts: []*model.AlertEvent{{
			Symbol:   "AAPL",
			Kind:     kind,
			PctValue: decimal.NewFromInt(5),
			Price:    decimal.NewFromInt(105),
		}},
	}
}

func TestDispatchRecordsSentAlerts(t *testing.T) {
	st := newTestStore(t)
	sender := &fakeSender{}
	d := NewDispatcher(sender, st, 0, nil)

	report, err := d.Dispatch(context.Background(), summaryWithAlert(model.KindAbnormalMove))
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, report, "AAPL: 105.00 (+5.00%) [ABNORMAL_UP]")

	history, err := st.ListAlerts(10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].NotificationSent)
}

func TestDispatchRecordsFailedDelivery(t *testing.T) {
	st := newTestStore(t)
	sender := &fakeSender{err: ErrConfigMissing}
	d := NewDispatcher(sender, st, 0, nil)

	_, err := d.Dispatch(context.Background(), summaryWithAlert(model.KindTakeProfit))
	require.ErrorIs(t, err, ErrConfigMissing)

	// The alert is still persisted, marked as undelivered.
	history, err := st.ListAlerts(10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].NotificationSent)
}

func TestDispatchCooldownSuppression(t *testing.T) {
	st := newTestStore(t)
	sender := &fakeSender{}
	d := NewDispatcher(sender, st, time.Hour, nil)

	_, err := d.Dispatch(context.Background(), summaryWithAlert(model.KindStopLoss))
	require.NoError(t, err)

	// Second run inside the window: report still goes out, alert does not
	// get recorded again.
	_, err = d.Dispatch(context.Background(), summaryWithAlert(model.KindStopLoss))
	require.NoError(t, err)
	assert.Len(t, sender.sent, 2)

	history, err := st.ListAlerts(10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestDispatchCooldownIsPerKind(t *testing.T) {
	st := newTestStore(t)
	d := NewDispatcher(&fakeSender{}, st, time.Hour, nil)

	_, err := d.Dispatch(context.Background(), summaryWithAlert(model.KindStopLoss))
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), summaryWithAlert(model.KindTakeProfit))
	require.NoError(t, err)

	history, err := st.ListAlerts(10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
