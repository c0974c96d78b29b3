package notifier

import (
	"fmt"
	"strings"
	"time"

	"QuantTerminal/internal/model"
	"QuantTerminal/internal/scan"
)

// FormatReport renders a scan outcome as a Telegram message. The output is
// deterministic for a given input: one line per result, then a block per
// alert, then the symbols that produced no data.
func FormatReport(results []*model.ScanResult, alerts []*model.AlertEvent, failures []scan.Failure, at time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Watchlist Scan</b> | %s\n\n", at.Format("2006-01-02 15:04")))

	if len(results) == 0 && len(failures) == 0 {
		b.WriteString("Watchlist is empty.\n")
		return b.String()
	}

	for _, r := range results {
		b.WriteString(fmt.Sprintf("%s: %.2f (%+.2f%%) [%s]", r.Symbol, r.CurrentPrice, r.PctChange, r.Classification))
		if r.RSI14 != nil {
			b.WriteString(fmt.Sprintf(" RSI=%.0f", *r.RSI14))
		}
		if r.MACDCross != model.CrossNone {
			b.WriteString(fmt.Sprintf(" MACD=%s", r.MACDCross))
		}
		b.WriteString("\n")
	}

	if len(alerts) > 0 {
		b.WriteString("\n🔔 <b>Alerts</b>\n")
		for _, a := range alerts {
			b.WriteString(fmt.Sprintf("%s %s: %s%% at %s\n",
				alertEmoji(a.Kind), a.Symbol, a.PctValue.StringFixed(2), a.Price.StringFixed(2)))
		}
	}

	if len(failures) > 0 {
		b.WriteString("\n⚠️ <b>No data</b>\n")
		for _, f := range failures {
			b.WriteString(fmt.Sprintf("%s: %s\n", f.Symbol, f.Reason))
		}
	}

	return b.String()
}

func alertEmoji(kind model.AlertKind) string {
	switch kind {
	case model.KindTakeProfit:
		return "💰"
	case model.KindStopLoss:
		return "🛑"
	default:
		return "⚡"
	}
}

// FormatWatchlist renders current watchlist membership.
func FormatWatchlist(symbols []string) string {
	if len(symbols) == 0 {
		return "Watchlist is empty."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("👀 <b>Watchlist</b> (%d)\n", len(symbols)))
	for _, s := range symbols {
		b.WriteString("• " + s + "\n")
	}
	return b.String()
}

// FormatPositions renders the latest position per symbol.
func FormatPositions(positions []*model.Position) string {
	if len(positions) == 0 {
		return "No open positions."
	}
	var b strings.Builder
	b.WriteString("📦 <b>Positions</b>\n")
	for _, p := range positions {
		b.WriteString(fmt.Sprintf("%s: %s @ %s (%s)\n",
			p.Symbol, p.Quantity.String(), p.EntryPrice.StringFixed(2),
			p.OpenedAt.Format("2006-01-02")))
	}
	return b.String()
}

// FormatAlertHistory renders recent alert events, newest first.
func FormatAlertHistory(alerts []*model.AlertEvent) string {
	if len(alerts) == 0 {
		return "No alerts recorded."
	}
	var b strings.Builder
	b.WriteString("🔔 <b>Alert history</b>\n")
	for _, a := range alerts {
		sent := "sent"
		if !a.NotificationSent {
			sent = "not sent"
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s%% at %s (%s)\n",
			a.Timestamp.Format("01-02 15:04"), a.Symbol, a.Kind,
			a.PctValue.StringFixed(2), a.Price.StringFixed(2), sent))
	}
	return b.String()
}

// FormatYTD renders year-to-date performance per symbol.
func FormatYTD(entries []scan.YTDEntry, failures []scan.Failure) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>YTD Performance</b> | %d\n", time.Now().Year()))
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s: %+.2f%%\n", e.Symbol, e.ReturnPct))
	}
	for _, f := range failures {
		b.WriteString(fmt.Sprintf("%s: %s\n", f.Symbol, f.Reason))
	}
	return b.String()
}
