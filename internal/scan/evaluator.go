// Package scan implements the watchlist evaluation engine: per-symbol move
// classification, take-profit / stop-loss checks against open positions,
// and batch scans with per-symbol failure isolation. Evaluation is
// side-effect-free; dispatching the resulting report is the caller's job.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"QuantTerminal/internal/gateway"
	"QuantTerminal/internal/indicator"
	"QuantTerminal/internal/metrics"
	"QuantTerminal/internal/model"
)

// ErrDataUnavailable marks a symbol whose price series is empty or has
// fewer than two bars. It is always local to the symbol, never fatal to
// the batch.
var ErrDataUnavailable = errors.New("price data unavailable")

// Config holds the evaluation thresholds and scan limits.
type Config struct {
	SensitivityPct float64 // abnormal-move threshold, percent
	TakeProfitPct  float64
	StopLossPct    float64
	LookbackDays   int
	Workers        int
	SymbolTimeout  time.Duration
	ScanTimeout    time.Duration
}

// Ledger is the slice of the position store the evaluator needs.
type Ledger interface {
	CurrentPosition(symbol string) (*model.Position, error)
}

// Failure marks a symbol that produced no ScanResult.
type Failure struct {
	Symbol         string               `json:"symbol"`
	Classification model.Classification `json:"classification"`
	Reason         string               `json:"reason"`
}

// Summary is the aggregate outcome of one scan run.
type Summary struct {
	RunID     string              `json:"run_id"`
	StartedAt time.Time           `json:"started_at"`
	Duration  time.Duration       `json:"duration"`
	Results   []*model.ScanResult `json:"results"`
	Alerts    []*model.AlertEvent `json:"alerts"`
	Failures  []Failure           `json:"failures"`
}

// Evaluator runs watchlist scans.
type Evaluator struct {
	gateway *gateway.Gateway
	cfg     Config
	metrics *metrics.Metrics
}

// NewEvaluator creates an Evaluator. metrics may be nil. Zero-value worker
// and timeout fields fall back to usable defaults so a partially filled
// Config never yields an already-expired scan context.
func NewEvaluator(gw *gateway.Gateway, cfg Config, m *metrics.Metrics) *Evaluator {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.SymbolTimeout <= 0 {
		cfg.SymbolTimeout = 15 * time.Second
	}
	if cfg.ScanTimeout <= 0 {
		cfg.ScanTimeout = 120 * time.Second
	}
	return &Evaluator{gateway: gw, cfg: cfg, metrics: m}
}

// EvaluateSymbol fetches the symbol's daily series and classifies its latest
// move. Returns ErrDataUnavailable when the series has fewer than two bars.
func (e *Evaluator) EvaluateSymbol(ctx context.Context, symbol string) (*model.ScanResult, error) {
	series, err := e.gateway.FetchSeries(ctx, symbol, e.cfg.LookbackDays)
	if err != nil {
		return nil, err
	}
	if series.Len() < 2 {
		return nil, ErrDataUnavailable
	}

	closes := series.Closes()
	current := closes[len(closes)-1]
	previous := closes[len(closes)-2]

	res := &model.ScanResult{
		Symbol:        series.Symbol,
		CurrentPrice:  current,
		PreviousClose: previous,
		At:            time.Now(),
	}

	// Context for the report, not for classification.
	if rsi := indicator.LatestRSI(closes, 14); !math.IsNaN(rsi) {
		res.RSI14 = &rsi
	}
	res.MACDCross = indicator.ComputeMACD(closes, 12, 26, 9).LatestCross()

	if previous == 0 {
		// Division is undefined; never a runtime fault.
		res.Classification = model.ClassUndefinedMove
		return res, nil
	}
	res.PctChange = (current - previous) / previous * 100

	// First match wins.
	switch {
	case res.PctChange >= e.cfg.SensitivityPct:
		res.Classification = model.ClassAbnormalUp
	case res.PctChange <= -e.cfg.SensitivityPct:
		res.Classification = model.ClassAbnormalDown
	default:
		sma5 := indicator.LatestSMA(closes, 5)
		if !math.IsNaN(sma5) && current > sma5 {
			res.Classification = model.ClassTrendUp
		} else {
			res.Classification = model.ClassNeutral
		}
	}
	return res, nil
}

// EvaluatePosition checks an open position against the take-profit and
// stop-loss thresholds. Returns nil when neither threshold is crossed or
// the entry price is zero.
func (e *Evaluator) EvaluatePosition(pos *model.Position, currentPrice float64) *model.AlertEvent {
	if pos == nil || pos.EntryPrice.IsZero() {
		return nil
	}
	price := decimal.NewFromFloat(currentPrice)
	pnlPct := price.Div(pos.EntryPrice).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))

	var kind model.AlertKind
	switch {
	case pnlPct.GreaterThanOrEqual(decimal.NewFromFloat(e.cfg.TakeProfitPct)):
		kind = model.KindTakeProfit
	case pnlPct.LessThanOrEqual(decimal.NewFromFloat(-e.cfg.StopLossPct)):
		kind = model.KindStopLoss
	default:
		return nil
	}
	return &model.AlertEvent{
		Symbol:    pos.Symbol,
		Kind:      kind,
		PctValue:  pnlPct.Round(4),
		Price:     price,
		Timestamp: time.Now(),
	}
}

type outcome struct {
	result *model.ScanResult
	alerts []*model.AlertEvent
	fail   *Failure
}

// abortedOutcome marks a symbol that was never dispatched because the scan
// context ended first. The reason distinguishes shutdown from the deadline.
func abortedOutcome(symbol string, ctxErr error) outcome {
	reason := "scan deadline exceeded"
	if errors.Is(ctxErr, context.Canceled) {
		reason = "scan cancelled"
	}
	return outcome{fail: &Failure{
		Symbol:         model.NormalizeSymbol(symbol),
		Classification: model.ClassDataUnavailable,
		Reason:         reason,
	}}
}

// Run scans every symbol with a bounded worker pool. A fetch failure or
// malformed series for one symbol never aborts the others; affected symbols
// are collected as Failures. Output preserves the input symbol order.
func (e *Evaluator) Run(ctx context.Context, symbols []string, ledger Ledger) *Summary {
	sum := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log.Printf("[INFO] scan %s: %d symbols, %d workers", sum.RunID, len(symbols), e.cfg.Workers)

	ctx, cancel := context.WithTimeout(ctx, e.cfg.ScanTimeout)
	defer cancel()

	outcomes := make([]outcome, len(symbols))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := e.cfg.Workers
	if workers > len(symbols) && len(symbols) > 0 {
		workers = len(symbols)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = e.evaluateOne(ctx, symbols[i], ledger)
			}
		}()
	}
	for i := range symbols {
		if ctx.Err() != nil {
			outcomes[i] = abortedOutcome(symbols[i], ctx.Err())
			continue
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			outcomes[i] = abortedOutcome(symbols[i], ctx.Err())
		}
	}
	close(jobs)
	wg.Wait()

	for _, o := range outcomes {
		if o.result != nil {
			sum.Results = append(sum.Results, o.result)
		}
		sum.Alerts = append(sum.Alerts, o.alerts...)
		if o.fail != nil {
			sum.Failures = append(sum.Failures, *o.fail)
		}
	}
	sum.Duration = time.Since(sum.StartedAt)

	if e.metrics != nil {
		e.metrics.ScansTotal.Inc()
		e.metrics.ScanDuration.Observe(sum.Duration.Seconds())
		e.metrics.SymbolsScanned.Add(float64(len(symbols)))
		e.metrics.DataUnavailable.Add(float64(len(sum.Failures)))
	}
	log.Printf("[INFO] scan %s done: %d results, %d alerts, %d failures in %v",
		sum.RunID, len(sum.Results), len(sum.Alerts), len(sum.Failures), sum.Duration)
	return sum
}

func (e *Evaluator) evaluateOne(ctx context.Context, symbol string, ledger Ledger) outcome {
	sctx, cancel := context.WithTimeout(ctx, e.cfg.SymbolTimeout)
	defer cancel()

	res, err := e.EvaluateSymbol(sctx, symbol)
	if err != nil {
		reason := "data unavailable"
		if !errors.Is(err, ErrDataUnavailable) {
			reason = err.Error()
			log.Printf("[WARN] evaluate %s: %v", symbol, err)
		}
		return outcome{fail: &Failure{
			Symbol:         model.NormalizeSymbol(symbol),
			Classification: model.ClassDataUnavailable,
			Reason:         reason,
		}}
	}

	var alerts []*model.AlertEvent
	if res.Classification == model.ClassAbnormalUp || res.Classification == model.ClassAbnormalDown {
		alerts = append(alerts, &model.AlertEvent{
			Symbol:    res.Symbol,
			Kind:      model.KindAbnormalMove,
			PctValue:  decimal.NewFromFloat(res.PctChange).Round(4),
			Price:     decimal.NewFromFloat(res.CurrentPrice),
			Timestamp: time.Now(),
		})
	}

	// Position thresholds are checked independently of the move
	// classification: both can fire in the same scan.
	if ledger != nil {
		pos, err := ledger.CurrentPosition(res.Symbol)
		if err != nil {
			log.Printf("[ERROR] current position %s: %v", res.Symbol, err)
		} else if evt := e.EvaluatePosition(pos, res.CurrentPrice); evt != nil {
			alerts = append(alerts, evt)
		}
	}
	return outcome{result: res, alerts: alerts}
}

// String implements fmt.Stringer for log lines.
func (f Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Symbol, f.Reason)
}
