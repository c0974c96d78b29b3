package notifier

import (
	"context"
	"log"
	"time"

	"QuantTerminal/internal/metrics"
	"QuantTerminal/internal/model"
	"QuantTerminal/internal/scan"
	"QuantTerminal/internal/store"
)

// Dispatcher persists alert events and delivers scan reports. A cooldown
// window suppresses repeat alerts of the same kind for the same symbol;
// zero disables suppression.
type Dispatcher struct {
	sender   Sender
	store    *store.Store
	cooldown time.Duration
	metrics  *metrics.Metrics
}

func NewDispatcher(sender Sender, st *store.Store, cooldown time.Duration, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{sender: sender, store: st, cooldown: cooldown, metrics: m}
}

// Dispatch filters the run's alerts through the cooldown window, sends the
// formatted report, and records every non-suppressed alert with its delivery
// outcome. It returns the rendered report even when delivery fails so
// callers can surface it elsewhere.
func (d *Dispatcher) Dispatch(ctx context.Context, sum *scan.Summary) (string, error) {
	alerts := make([]*model.AlertEvent, 0, len(sum.Alerts))
	for _, a := range sum.Alerts {
		if d.suppressed(a) {
			log.Printf("[INFO] alert suppressed by cooldown: %s %s", a.Symbol, a.Kind)
			if d.metrics != nil {
				d.metrics.AlertsSuppressed.Inc()
			}
			continue
		}
		alerts = append(alerts, a)
	}

	report := FormatReport(sum.Results, alerts, sum.Failures, sum.StartedAt)

	sendErr := d.sender.Send(ctx, report)
	if sendErr != nil {
		if d.metrics != nil {
			d.metrics.DispatchFailures.Inc()
		}
		log.Printf("[WARN] report delivery failed: %v", sendErr)
	}

	for _, a := range alerts {
		a.NotificationSent = sendErr == nil
		if err := d.store.RecordAlert(a); err != nil {
			log.Printf("[ERROR] record alert %s %s: %v", a.Symbol, a.Kind, err)
			continue
		}
		if d.metrics != nil {
			d.metrics.AlertsTotal.WithLabelValues(string(a.Kind)).Inc()
		}
	}

	return report, sendErr
}

func (d *Dispatcher) suppressed(a *model.AlertEvent) bool {
	if d.cooldown <= 0 {
		return false
	}
	last, ok, err := d.store.LastAlertTime(a.Symbol, a.Kind)
	if err != nil {
		log.Printf("[WARN] cooldown lookup for %s %s: %v", a.Symbol, a.Kind, err)
		return false
	}
	return ok && time.Since(last) < d.cooldown
}
