package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Valuation.GrowthYears != 5 || cfg.Valuation.DefaultWACC != 0.095 {
		t.Errorf("unexpected valuation defaults: %+v", cfg.Valuation)
	}
	if cfg.Fetch.MaxRetries != 3 || cfg.RetryDelay() != 2*time.Second {
		t.Errorf("unexpected fetch defaults: %+v", cfg.Fetch)
	}
	if cfg.Files.TickersCSV == "" || cfg.Database.SQLitePath == "" {
		t.Errorf("unexpected file defaults: %+v", cfg.Files)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
files:
  output_dir: /tmp/reports
valuation:
  growth_years: 7
  default_wacc: 0.10
telegram:
  bot_token: from-file
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Files.OutputDir != "/tmp/reports" {
		t.Errorf("file value lost: %s", cfg.Files.OutputDir)
	}
	if cfg.Valuation.GrowthYears != 7 || cfg.Valuation.DefaultWACC != 0.10 {
		t.Errorf("file valuation values lost: %+v", cfg.Valuation)
	}
	if cfg.Telegram.BotToken != "from-env" {
		t.Errorf("env should override file, got %s", cfg.Telegram.BotToken)
	}
	if cfg.Valuation.DefaultGrowthRate != 0.03 {
		t.Errorf("unset fields should keep defaults: %v", cfg.Valuation.DefaultGrowthRate)
	}
}

func TestValidate_RejectsDegenerateRates(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Valuation.DefaultTerminalGrowth = 0.12
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when terminal growth exceeds WACC")
	}

	cfg.Valuation.DefaultTerminalGrowth = 0.025
	cfg.Valuation.GrowthYears = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero growth years")
	}
}
