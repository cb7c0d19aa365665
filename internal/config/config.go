package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"coin-signal-bot/internal/domain"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	TelegramBotToken string `yaml:"telegram_bot_token"`
	TelegramChatID   int64  `yaml:"telegram_chat_id"`

	Symbols               []string `yaml:"symbols"`
	CandleGranularitySecs int      `yaml:"candle_granularity"`
	MinCandles            int      `yaml:"min_candles"`
	SweepIntervalSecs     int      `yaml:"sweep_interval"`
	SweepCron             string   `yaml:"sweep_cron"`
	FetchConcurrency      int      `yaml:"fetch_concurrency"`

	ClassifierPolicy string  `yaml:"classifier_policy"`
	SignalThreshold  float64 `yaml:"signal_threshold"`
	RiskPolicy       string  `yaml:"risk_policy"`

	NotifyDelay  time.Duration `yaml:"notify_delay"`
	CycleSummary bool          `yaml:"cycle_summary"`

	CoinbaseBaseURL    string  `yaml:"coinbase_base_url"`
	CoinbaseRPS        float64 `yaml:"coinbase_rps"`
	RequestTimeoutSecs int     `yaml:"request_timeout_secs"`

	OpenAIAPIKey string `yaml:"openai_api_key"`
	OpenAIModel  string `yaml:"openai_model"`

	RedisURL string `yaml:"redis_url"`
	HTTPAddr string `yaml:"http_addr"`
	// APIKey guards on-demand evaluation routes; empty disables the check.
	APIKey string `yaml:"api_key"`

	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	TracingEnabled bool   `yaml:"tracing_enabled"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
}

// Load reads the optional YAML file named by CONFIG_FILE, then applies
// environment overrides and defaults. Invalid numeric env values are ignored.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.TelegramBotToken = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = n
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid TELEGRAM_CHAT_ID")
		}
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == 0 {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set, signals will only be logged")
	}

	if v := strings.TrimSpace(os.Getenv("SYMBOLS")); v != "" {
		cfg.Symbols = splitList(v)
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = append([]string(nil), domain.DefaultSymbols...)
	}

	cfg.CandleGranularitySecs = positiveInt("CANDLE_GRANULARITY", cfg.CandleGranularitySecs, 60)
	cfg.MinCandles = positiveInt("MIN_CANDLES", cfg.MinCandles, 50)
	cfg.SweepIntervalSecs = positiveInt("SWEEP_INTERVAL", cfg.SweepIntervalSecs, 300)
	cfg.FetchConcurrency = positiveInt("FETCH_CONCURRENCY", cfg.FetchConcurrency, 1)
	cfg.RequestTimeoutSecs = positiveInt("REQUEST_TIMEOUT_SECS", cfg.RequestTimeoutSecs, 15)

	if v := strings.TrimSpace(os.Getenv("SWEEP_CRON")); v != "" {
		cfg.SweepCron = v
	}

	cfg.ClassifierPolicy = lowerString("CLASSIFIER_POLICY", cfg.ClassifierPolicy, "weighted")
	cfg.RiskPolicy = lowerString("RISK_POLICY", cfg.RiskPolicy, "volatility")

	cfg.SignalThreshold = positiveFloat("SIGNAL_THRESHOLD", cfg.SignalThreshold, 50)
	cfg.CoinbaseRPS = positiveFloat("COINBASE_RPS", cfg.CoinbaseRPS, 5)

	if v := strings.TrimSpace(os.Getenv("NOTIFY_DELAY")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.NotifyDelay = d
		}
	}
	if cfg.NotifyDelay == 0 {
		cfg.NotifyDelay = 1500 * time.Millisecond
	}

	cfg.CycleSummary = boolEnv("CYCLE_SUMMARY", cfg.CycleSummary)

	if v := strings.TrimSpace(os.Getenv("COINBASE_BASE_URL")); v != "" {
		cfg.CoinbaseBaseURL = v
	}
	if cfg.CoinbaseBaseURL == "" {
		cfg.CoinbaseBaseURL = "https://api.exchange.coinbase.com"
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if cfg.OpenAIAPIKey == "" {
		log.Info().Msg("OPENAI_API_KEY not set, annotations disabled")
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); v != "" {
		cfg.OpenAIModel = v
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}

	if v := strings.TrimSpace(os.Getenv("HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if v := strings.TrimSpace(os.Getenv("API_KEY")); v != "" {
		cfg.APIKey = v
	}

	cfg.LogLevel = lowerString("LOG_LEVEL", cfg.LogLevel, "info")
	cfg.LogFormat = lowerString("LOG_FORMAT", cfg.LogFormat, "console")

	cfg.TracingEnabled = boolEnv("TRACING_ENABLED", cfg.TracingEnabled)
	if v := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); v != "" {
		cfg.OTLPEndpoint = v
	}
	if cfg.OTLPEndpoint == "" {
		cfg.OTLPEndpoint = "localhost:4317"
	}

	return cfg, nil
}

// Validate checks the settings the sweep cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Symbols) == 0 {
		errs = append(errs, errors.New("symbols must not be empty"))
	}
	if c.CandleGranularitySecs <= 0 {
		errs = append(errs, errors.New("candle_granularity must be positive"))
	}
	if c.SweepIntervalSecs <= 0 {
		errs = append(errs, errors.New("sweep_interval must be positive"))
	}
	if c.SignalThreshold <= 0 {
		errs = append(errs, errors.New("signal_threshold must be positive"))
	}
	switch c.ClassifierPolicy {
	case "weighted", "crossover":
	default:
		errs = append(errs, fmt.Errorf("unknown classifier_policy %q", c.ClassifierPolicy))
	}
	switch c.RiskPolicy {
	case "volatility", "random":
	default:
		errs = append(errs, fmt.Errorf("unknown risk_policy %q", c.RiskPolicy))
	}
	if c.SweepCron != "" {
		if _, err := cron.ParseStandard(c.SweepCron); err != nil {
			errs = append(errs, fmt.Errorf("invalid sweep_cron: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) Granularity() time.Duration {
	return time.Duration(c.CandleGranularitySecs) * time.Second
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSecs) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// TelegramEnabled reports whether outbound Telegram delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.ToUpper(strings.TrimSpace(part)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func positiveInt(key string, current, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if current > 0 {
		return current
	}
	return def
}

func positiveFloat(key string, current, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			return n
		}
	}
	if current > 0 {
		return current
	}
	return def
}

func lowerString(key, current, def string) string {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(key))); v != "" {
		return v
	}
	if current != "" {
		return strings.ToLower(current)
	}
	return def
}

func boolEnv(key string, current bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return current
	}
	return strings.EqualFold(v, "true") || v == "1"
}
