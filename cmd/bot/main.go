package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"QuantTerminal/internal/api"
	"QuantTerminal/internal/config"
	"QuantTerminal/internal/gateway"
	"QuantTerminal/internal/metrics"
	"QuantTerminal/internal/notifier"
	"QuantTerminal/internal/scan"
	"QuantTerminal/internal/scheduler"
	"QuantTerminal/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] QuantTerminal starting...")

	// .env is optional; environment overrides still apply without it.
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher gateway.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = gateway.NewQuoteAPIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = gateway.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init store and seed the watchlist on first run
	st, err := store.Open(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()
	if err := st.Seed(cfg.Watchlist); err != nil {
		log.Fatalf("[FATAL] seed watchlist: %v", err)
	}

	// Init metrics and scan pipeline
	m := metrics.NewMetrics()
	gw := gateway.New(fetcher, m)
	ev := scan.NewEvaluator(gw, scan.Config{
		SensitivityPct: cfg.Scan.SensitivityPct,
		TakeProfitPct:  cfg.Scan.TakeProfitPct,
		StopLossPct:    cfg.Scan.StopLossPct,
		LookbackDays:   cfg.Scan.LookbackDays,
		Workers:        cfg.Scan.Workers,
		SymbolTimeout:  time.Duration(cfg.Scan.SymbolTimeoutSecs) * time.Second,
		ScanTimeout:    time.Duration(cfg.Scan.ScanTimeoutSecs) * time.Second,
	}, m)

	// Init Telegram notifier and dispatcher
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	d := notifier.NewDispatcher(tn, st, cfg.AlertCooldown(), m)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, ev, st, d)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// HTTP API
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.SetupRoutes(api.NewHandler(st, sched)),
	}
	go func() {
		log.Printf("[INFO] HTTP API listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] QuantTerminal is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] QuantTerminal stopped")
}
