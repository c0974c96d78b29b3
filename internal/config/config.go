package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Scan struct {
		SensitivityPct    float64 `yaml:"sensitivity_pct"`
		TakeProfitPct     float64 `yaml:"take_profit_pct"`
		StopLossPct       float64 `yaml:"stop_loss_pct"`
		LookbackDays      int     `yaml:"lookback_days"`
		Workers           int     `yaml:"workers"`
		SymbolTimeoutSecs int     `yaml:"symbol_timeout_secs"`
		ScanTimeoutSecs   int     `yaml:"scan_timeout_secs"`
		// Pointer so an explicit 0 (cooldown disabled) survives
		// defaulting; nil means unset.
		AlertCooldownMinutes *int `yaml:"alert_cooldown_minutes"`
	} `yaml:"scan"`
	Watchlist []string `yaml:"watchlist"`
	Schedule  struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("QUOTE_API_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("QUOTE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SENSITIVITY_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scan.SensitivityPct = f
		}
	}
	if v := os.Getenv("TAKE_PROFIT_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scan.TakeProfitPct = f
		}
	}
	if v := os.Getenv("STOP_LOSS_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scan.StopLossPct = f
		}
	}
	if v := os.Getenv("ALERT_COOLDOWN_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.AlertCooldownMinutes = &n
		}
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}

	// Defaults
	if cfg.Scan.SensitivityPct == 0 {
		cfg.Scan.SensitivityPct = 3.0
	}
	if cfg.Scan.TakeProfitPct == 0 {
		cfg.Scan.TakeProfitPct = 5.0
	}
	if cfg.Scan.StopLossPct == 0 {
		cfg.Scan.StopLossPct = 3.0
	}
	if cfg.Scan.LookbackDays == 0 {
		cfg.Scan.LookbackDays = 60
	}
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = 4
	}
	if cfg.Scan.SymbolTimeoutSecs == 0 {
		cfg.Scan.SymbolTimeoutSecs = 15
	}
	if cfg.Scan.ScanTimeoutSecs == 0 {
		cfg.Scan.ScanTimeoutSecs = 120
	}
	if cfg.Scan.AlertCooldownMinutes == nil {
		n := 60
		cfg.Scan.AlertCooldownMinutes = &n
	}
	if len(cfg.Watchlist) == 0 {
		cfg.Watchlist = []string{"AAPL", "NVDA", "TSLA", "GOOGL", "BTC-USD", "CPALL.BK", "PTT.BK"}
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 0 22 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/quant_terminal.db"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	return cfg, nil
}

// Validate checks field ranges. Telegram credentials are deliberately not
// required here: the bot runs scans without them and the notifier reports
// the missing credentials at dispatch time.
func (c *Config) Validate() error {
	if c.Scan.SensitivityPct <= 0 {
		return fmt.Errorf("scan.sensitivity_pct must be positive")
	}
	if c.Scan.TakeProfitPct <= 0 {
		return fmt.Errorf("scan.take_profit_pct must be positive")
	}
	if c.Scan.StopLossPct <= 0 {
		return fmt.Errorf("scan.stop_loss_pct must be positive")
	}
	if c.Scan.LookbackDays < 2 {
		return fmt.Errorf("scan.lookback_days must be at least 2")
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1")
	}
	if c.Scan.AlertCooldownMinutes != nil && *c.Scan.AlertCooldownMinutes < 0 {
		return fmt.Errorf("scan.alert_cooldown_minutes must not be negative")
	}
	return nil
}

// AlertCooldown returns the alert de-duplication window. Zero disables
// suppression entirely.
func (c *Config) AlertCooldown() time.Duration {
	if c.Scan.AlertCooldownMinutes == nil {
		return 0
	}
	return time.Duration(*c.Scan.AlertCooldownMinutes) * time.Minute
}
