package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"QuantTerminal/internal/notifier"
	"QuantTerminal/internal/scan"
	"QuantTerminal/internal/store"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the cron loop and ties scan runs to dispatch.
type Scheduler struct {
	Cron       *cron.Cron
	Evaluator  *scan.Evaluator
	Store      *store.Store
	Dispatcher *notifier.Dispatcher
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, ev *scan.Evaluator, st *store.Store, d *notifier.Dispatcher) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Evaluator:  ev,
		Store:      st,
		Dispatcher: d,
		Ctx:        ctx,
	}
}

// RegisterAll registers the periodic scan task.
func (s *Scheduler) RegisterAll(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

// RunScan runs one full scan over the watchlist and dispatches the outcome.
// The summary is returned even when dispatch fails.
func (s *Scheduler) RunScan(ctx context.Context) (*scan.Summary, string, error) {
	symbols, err := s.Store.ListSymbols()
	if err != nil {
		return nil, "", fmt.Errorf("load watchlist: %w", err)
	}
	sum := s.Evaluator.Run(ctx, symbols, s.Store)
	report, err := s.Dispatcher.Dispatch(ctx, sum)
	return sum, report, err
}

func (s *Scheduler) scanTask() {
	log.Println("[INFO] running scheduled scan")
	sum, _, err := s.RunScan(s.Ctx)
	if err != nil {
		if errors.Is(err, notifier.ErrConfigMissing) {
			log.Println("[WARN] scan completed but no telegram credentials; report not delivered")
		} else {
			log.Printf("[ERROR] scheduled scan: %v", err)
		}
		return
	}
	if sum != nil {
		log.Printf("[INFO] scan %s finished: %d results, %d alerts, %d failures in %s",
			sum.RunID, len(sum.Results), len(sum.Alerts), len(sum.Failures), sum.Duration)
	}
}

// HandleCommand processes a user command and returns a reply. An empty reply
// means the command produced its own outbound message.
func (s *Scheduler) HandleCommand(command string) string {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(command), " ")
	switch cmd {
	case "/scan":
		sum, report, err := s.RunScan(s.Ctx)
		if err != nil && !errors.Is(err, notifier.ErrConfigMissing) {
			return fmt.Sprintf("Scan failed: %v", err)
		}
		if sum == nil {
			return "Scan failed."
		}
		// Dispatch already delivered the report when credentials exist;
		// the polling loop echoes it back only on the credential-less path.
		if errors.Is(err, notifier.ErrConfigMissing) {
			return report
		}
		return ""
	case "/watchlist":
		symbols, err := s.Store.ListSymbols()
		if err != nil {
			return fmt.Sprintf("Watchlist lookup failed: %v", err)
		}
		return notifier.FormatWatchlist(symbols)
	case "/add":
		if arg == "" {
			return "Usage: /add SYMBOL"
		}
		if err := s.Store.AddSymbol(arg); err != nil {
			return fmt.Sprintf("Add failed: %v", err)
		}
		return fmt.Sprintf("Added %s to the watchlist.", strings.ToUpper(strings.TrimSpace(arg)))
	case "/remove":
		if arg == "" {
			return "Usage: /remove SYMBOL"
		}
		if err := s.Store.RemoveSymbol(arg); err != nil {
			return fmt.Sprintf("Remove failed: %v", err)
		}
		return fmt.Sprintf("Removed %s from the watchlist.", strings.ToUpper(strings.TrimSpace(arg)))
	case "/positions":
		positions, err := s.Store.CurrentPositions()
		if err != nil {
			return fmt.Sprintf("Position lookup failed: %v", err)
		}
		return notifier.FormatPositions(positions)
	case "/alerts":
		alerts, err := s.Store.ListAlerts(20)
		if err != nil {
			return fmt.Sprintf("Alert lookup failed: %v", err)
		}
		return notifier.FormatAlertHistory(alerts)
	case "/ytd":
		symbols, err := s.Store.ListSymbols()
		if err != nil {
			return fmt.Sprintf("Watchlist lookup failed: %v", err)
		}
		entries, failures := s.Evaluator.YTDReturns(s.Ctx, symbols)
		return notifier.FormatYTD(entries, failures)
	default:
		return "Commands:\n• /scan\n• /watchlist\n• /add SYMBOL\n• /remove SYMBOL\n• /positions\n• /alerts\n• /ytd"
	}
}
