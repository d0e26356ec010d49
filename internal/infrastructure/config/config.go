package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Logging
	LogLevel  string `env:"WALLET_LOG_LEVEL"  envDefault:"warn"`
	LogFormat string `env:"WALLET_LOG_FORMAT" envDefault:"console"`

	// Console
	NoColor bool `env:"WALLET_NO_COLOR" envDefault:"false"`

	// Wallet rules
	MaxAccountsPerUser int `env:"WALLET_MAX_ACCOUNTS_PER_USER" envDefault:"5"`
	RetryMax           int `env:"WALLET_RETRY_MAX"             envDefault:"3"`

	// Metrics (leave empty to disable the exit dump)
	MetricsFile string `env:"WALLET_METRICS_FILE" envDefault:""`
}

// Load loads configuration from environment variables. Variables from the
// given dotenv files (default ".env") fill in whatever the environment does
// not set; a missing file is ignored.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
