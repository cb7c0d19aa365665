package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"CONFIG_FILE", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "SYMBOLS", "CANDLE_GRANULARITY",
	"MIN_CANDLES", "SWEEP_INTERVAL", "SWEEP_CRON", "FETCH_CONCURRENCY", "CLASSIFIER_POLICY",
	"SIGNAL_THRESHOLD", "RISK_POLICY", "NOTIFY_DELAY", "CYCLE_SUMMARY", "COINBASE_BASE_URL",
	"COINBASE_RPS", "REQUEST_TIMEOUT_SECS", "OPENAI_API_KEY", "OPENAI_MODEL", "REDIS_URL",
	"HTTP_ADDR", "API_KEY", "LOG_LEVEL", "LOG_FORMAT", "TRACING_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Symbols) != 20 || cfg.Symbols[0] != "BTC-USD" {
		t.Fatalf("expected default symbols, got %v", cfg.Symbols)
	}
	if cfg.Granularity() != time.Minute || cfg.SweepInterval() != 5*time.Minute {
		t.Fatalf("unexpected timing defaults: %+v", cfg)
	}
	if cfg.MinCandles != 50 || cfg.FetchConcurrency != 1 || cfg.RequestTimeout() != 15*time.Second {
		t.Fatalf("unexpected numeric defaults: %+v", cfg)
	}
	if cfg.ClassifierPolicy != "weighted" || cfg.RiskPolicy != "volatility" || cfg.SignalThreshold != 50 {
		t.Fatalf("unexpected policy defaults: %+v", cfg)
	}
	if cfg.NotifyDelay != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s notify delay, got %v", cfg.NotifyDelay)
	}
	if cfg.HTTPAddr != ":8080" || cfg.OpenAIModel != "gpt-4o-mini" || cfg.RedisURL != "" {
		t.Fatalf("unexpected service defaults: %+v", cfg)
	}
	if cfg.TelegramEnabled() {
		t.Fatal("telegram must be disabled without credentials")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("SYMBOLS", " btc-usd, ETH-USD ,,")
	t.Setenv("SWEEP_INTERVAL", "30")
	t.Setenv("CLASSIFIER_POLICY", "Crossover")
	t.Setenv("RISK_POLICY", "random")
	t.Setenv("NOTIFY_DELAY", "250ms")
	t.Setenv("CYCLE_SUMMARY", "true")
	t.Setenv("API_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.TelegramEnabled() || cfg.TelegramChatID != -100123 {
		t.Fatalf("unexpected telegram config: %+v", cfg)
	}
	if strings.Join(cfg.Symbols, ",") != "BTC-USD,ETH-USD" {
		t.Fatalf("unexpected symbols %v", cfg.Symbols)
	}
	if cfg.SweepIntervalSecs != 30 || cfg.ClassifierPolicy != "crossover" || cfg.RiskPolicy != "random" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.NotifyDelay != 250*time.Millisecond || !cfg.CycleSummary || cfg.APIKey != "secret" {
		t.Fatalf("unexpected notifier settings: %+v", cfg)
	}

	t.Setenv("SWEEP_INTERVAL", "bad")
	cfg, _ = Load()
	if cfg.SweepIntervalSecs != 300 {
		t.Fatalf("invalid interval should fall back to default, got %d", cfg.SweepIntervalSecs)
	}
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
symbols: [SOL-USD, ADA-USD]
signal_threshold: 75
notify_delay: 2s
sweep_cron: "*/5 * * * *"
redis_url: redis://cache:6379/0
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SIGNAL_THRESHOLD", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(cfg.Symbols, ",") != "SOL-USD,ADA-USD" {
		t.Fatalf("expected symbols from file, got %v", cfg.Symbols)
	}
	if cfg.SignalThreshold != 60 {
		t.Fatalf("env must override file threshold, got %f", cfg.SignalThreshold)
	}
	if cfg.NotifyDelay != 2*time.Second || cfg.SweepCron != "*/5 * * * *" || cfg.RedisURL != "redis://cache:6379/0" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]func(c *Config){
		"empty symbols":    func(c *Config) { c.Symbols = nil },
		"zero granularity": func(c *Config) { c.CandleGranularitySecs = 0 },
		"zero interval":    func(c *Config) { c.SweepIntervalSecs = 0 },
		"zero threshold":   func(c *Config) { c.SignalThreshold = 0 },
		"unknown policy":   func(c *Config) { c.ClassifierPolicy = "ml" },
		"unknown risk":     func(c *Config) { c.RiskPolicy = "kelly" },
		"bad cron":         func(c *Config) { c.SweepCron = "every minute" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := *base
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
