package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3.0, cfg.Scan.SensitivityPct)
	assert.Equal(t, 5.0, cfg.Scan.TakeProfitPct)
	assert.Equal(t, 3.0, cfg.Scan.StopLossPct)
	assert.Equal(t, 60, cfg.Scan.LookbackDays)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.Equal(t, 60*time.Minute, cfg.AlertCooldown())
	assert.Contains(t, cfg.Watchlist, "AAPL")
	assert.Contains(t, cfg.Watchlist, "CPALL.BK")
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
telegram:
  bot_token: from-file
scan:
  sensitivity_pct: 2.5
watchlist:
  - msft
`), 0o644))

	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("SENSITIVITY_PCT", "4.5")
	t.Setenv("SERVER_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Telegram.BotToken)
	assert.Equal(t, 4.5, cfg.Scan.SensitivityPct)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"msft"}, cfg.Watchlist)
}

func TestValidateRejectsBadRanges(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg.Scan.LookbackDays = 1
	assert.Error(t, cfg.Validate())

	cfg.Scan.LookbackDays = 60
	negative := -1
	cfg.Scan.AlertCooldownMinutes = &negative
	assert.Error(t, cfg.Validate())
}

func TestExplicitZeroCooldownDisables(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
scan:
  alert_cooldown_minutes: 0
`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), cfg.AlertCooldown())
		assert.NoError(t, cfg.Validate())
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("ALERT_COOLDOWN_MINUTES", "0")
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), cfg.AlertCooldown())
	})
}

func TestValidateAllowsMissingTelegramCreds(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Telegram.BotToken = ""
	cfg.Telegram.ChatID = ""
	assert.NoError(t, cfg.Validate())
}
