package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iho/gowallet/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WALLET_LOG_LEVEL", "")
	t.Setenv("WALLET_METRICS_FILE", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Fatalf("expected default log level warn, got %q", cfg.LogLevel)
	}

	if cfg.LogFormat != "console" {
		t.Fatalf("expected default log format console, got %q", cfg.LogFormat)
	}

	if cfg.MaxAccountsPerUser != 5 {
		t.Fatalf("expected default account cap 5, got %d", cfg.MaxAccountsPerUser)
	}

	if cfg.RetryMax != 3 || cfg.NoColor || cfg.MetricsFile != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WALLET_LOG_LEVEL", "debug")
	t.Setenv("WALLET_LOG_FORMAT", "json")
	t.Setenv("WALLET_NO_COLOR", "true")
	t.Setenv("WALLET_MAX_ACCOUNTS_PER_USER", "2")
	t.Setenv("WALLET_RETRY_MAX", "0")
	t.Setenv("WALLET_METRICS_FILE", "/tmp/wallet.prom")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("expected logging overrides, got level=%s format=%s", cfg.LogLevel, cfg.LogFormat)
	}

	if !cfg.NoColor {
		t.Fatalf("expected colours disabled")
	}

	if cfg.MaxAccountsPerUser != 2 || cfg.RetryMax != 0 {
		t.Fatalf("expected wallet overrides, got cap=%d retries=%d", cfg.MaxAccountsPerUser, cfg.RetryMax)
	}

	if cfg.MetricsFile != "/tmp/wallet.prom" {
		t.Fatalf("expected metrics file override, got %s", cfg.MetricsFile)
	}
}

func TestLoadDotenvFillsUnsetVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.env")
	content := "WALLET_TEST_DOTENV_CAP=4\nWALLET_LOG_FORMAT=json\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write dotenv file: %v", err)
	}
	t.Setenv("WALLET_LOG_FORMAT", "console")
	t.Cleanup(func() { _ = os.Unsetenv("WALLET_TEST_DOTENV_CAP") })

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if got := os.Getenv("WALLET_TEST_DOTENV_CAP"); got != "4" {
		t.Fatalf("expected dotenv variable to be exported, got %q", got)
	}

	if cfg.LogFormat != "console" {
		t.Fatalf("expected environment to win over dotenv, got %s", cfg.LogFormat)
	}
}

func TestLoadInvalidNumber(t *testing.T) {
	t.Setenv("WALLET_MAX_ACCOUNTS_PER_USER", "five")

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for invalid account cap")
	}
}
