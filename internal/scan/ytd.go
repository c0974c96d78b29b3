package scan

import (
	"context"
	"log"
	"time"

	"QuantTerminal/internal/model"
)

// YTDEntry is one symbol's year-to-date performance: percent return from
// the first close of the calendar year to the latest close.
type YTDEntry struct {
	Symbol     string  `json:"symbol"`
	FirstClose float64 `json:"first_close"`
	LastClose  float64 `json:"last_close"`
	ReturnPct  float64 `json:"return_pct"`
}

// YTDReturns computes year-to-date returns for each symbol. Failures are
// isolated per symbol, same as scans.
func (e *Evaluator) YTDReturns(ctx context.Context, symbols []string) ([]YTDEntry, []Failure) {
	yearStart := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	// A few extra days so the first trading day of the year is included
	// regardless of provider range rounding.
	days := int(time.Since(yearStart).Hours()/24) + 7

	var entries []YTDEntry
	var failures []Failure
	for _, symbol := range symbols {
		entry, fail := e.ytdOne(ctx, symbol, yearStart, days)
		if fail != nil {
			failures = append(failures, *fail)
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, failures
}

func (e *Evaluator) ytdOne(ctx context.Context, symbol string, yearStart time.Time, days int) (*YTDEntry, *Failure) {
	sctx, cancel := context.WithTimeout(ctx, e.cfg.SymbolTimeout)
	defer cancel()

	series, err := e.gateway.FetchSeries(sctx, symbol, days)
	if err != nil {
		log.Printf("[WARN] ytd fetch %s: %v", symbol, err)
		return nil, &Failure{
			Symbol:         model.NormalizeSymbol(symbol),
			Classification: model.ClassDataUnavailable,
			Reason:         err.Error(),
		}
	}

	var closes []float64
	for _, b := range series.Bars {
		if !b.Date.Before(yearStart) {
			closes = append(closes, b.Close)
		}
	}
	if len(closes) < 2 || closes[0] == 0 {
		return nil, &Failure{
			Symbol:         series.Symbol,
			Classification: model.ClassDataUnavailable,
			Reason:         "insufficient year-to-date data",
		}
	}

	first, last := closes[0], closes[len(closes)-1]
	return &YTDEntry{
		Symbol:     series.Symbol,
		FirstClose: first,
		LastClose:  last,
		ReturnPct:  (last - first) / first * 100,
	}, nil
}
