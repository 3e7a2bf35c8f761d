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
	Files struct {
		TickersCSV  string `yaml:"tickers_csv"`
		TickersJSON string `yaml:"tickers_json"`
		FairValues  string `yaml:"fair_values"`
		BackupDir   string `yaml:"backup_dir"`
		OutputDir   string `yaml:"output_dir"`
	} `yaml:"files"`
	Fetch struct {
		MaxRetries    int     `yaml:"max_retries"`
		RetryDelaySec float64 `yaml:"retry_delay_seconds"`
	} `yaml:"fetch"`
	Valuation struct {
		GrowthYears           int     `yaml:"growth_years"`
		DefaultGrowthRate     float64 `yaml:"default_growth_rate"`
		DefaultTerminalGrowth float64 `yaml:"default_terminal_growth"`
		DefaultWACC           float64 `yaml:"default_wacc"`
	} `yaml:"valuation"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// RetryDelay returns the fetch retry delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Fetch.RetryDelaySec * float64(time.Second))
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
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("FETCH_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.MaxRetries = n
		}
	}

	// Defaults
	if cfg.Files.TickersCSV == "" {
		cfg.Files.TickersCSV = "data/amsterdam_aex_tickers.csv"
	}
	if cfg.Files.TickersJSON == "" {
		cfg.Files.TickersJSON = "data/tickers.json"
	}
	if cfg.Files.FairValues == "" {
		cfg.Files.FairValues = "data/fair_values.json"
	}
	if cfg.Files.BackupDir == "" {
		cfg.Files.BackupDir = "data/backups"
	}
	if cfg.Files.OutputDir == "" {
		cfg.Files.OutputDir = "reports"
	}
	if cfg.Fetch.MaxRetries == 0 {
		cfg.Fetch.MaxRetries = 3
	}
	if cfg.Fetch.RetryDelaySec == 0 {
		cfg.Fetch.RetryDelaySec = 2
	}
	if cfg.Valuation.GrowthYears == 0 {
		cfg.Valuation.GrowthYears = 5
	}
	if cfg.Valuation.DefaultGrowthRate == 0 {
		cfg.Valuation.DefaultGrowthRate = 0.03
	}
	if cfg.Valuation.DefaultTerminalGrowth == 0 {
		cfg.Valuation.DefaultTerminalGrowth = 0.025
	}
	if cfg.Valuation.DefaultWACC == 0 {
		cfg.Valuation.DefaultWACC = 0.095
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 0 18 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/aex_scanner.db"
	}

	return cfg, nil
}

// Validate checks the numeric parameters; Telegram credentials are only
// required in daemon mode and checked there.
func (c *Config) Validate() error {
	if c.Valuation.GrowthYears <= 0 {
		return fmt.Errorf("valuation.growth_years must be positive")
	}
	if c.Valuation.DefaultWACC <= c.Valuation.DefaultTerminalGrowth {
		return fmt.Errorf("valuation.default_wacc must exceed valuation.default_terminal_growth")
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must not be negative")
	}
	return nil
}
