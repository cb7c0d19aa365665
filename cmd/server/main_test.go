package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"coin-signal-bot/internal/advisor"
	"coin-signal-bot/internal/bot"
	"coin-signal-bot/internal/config"
	"coin-signal-bot/internal/domain"
	"coin-signal-bot/internal/job"
	"coin-signal-bot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func testConfig() *config.Config {
	return &config.Config{
		Symbols:               []string{"BTC-USD"},
		CandleGranularitySecs: 60,
		MinCandles:            50,
		SweepIntervalSecs:     1,
		FetchConcurrency:      1,
		ClassifierPolicy:      "weighted",
		SignalThreshold:       50,
		RiskPolicy:            "volatility",
		NotifyDelay:           time.Millisecond,
		HTTPAddr:              ":0",
	}
}

func TestRunBootstrapAndShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps(t, testConfig())
	defer restore()

	var started bool
	startSweeperFunc = func(s *job.Sweeper, ctx context.Context) <-chan struct{} {
		started = true
		done := make(chan struct{})
		close(done)
		return done
	}

	done := make(chan error, 1)
	go func() { done <- run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not exit")
	}
	if !started {
		t.Fatal("sweeper was not started")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ClassifierPolicy = "ml"
	restore := stubServerDeps(t, cfg)
	defer restore()

	if err := run(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRunSetsUpLoggingBeforeLoadingConfig(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"
	restore := stubServerDeps(t, cfg)
	defer restore()
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "console")

	var calls []string
	setupLoggingFunc = func(level, format string) zerolog.Level {
		calls = append(calls, "logging:"+level+"/"+format)
		return zerolog.InfoLevel
	}
	loadConfigFunc = func() (*config.Config, error) {
		calls = append(calls, "config")
		return cfg, nil
	}

	if err := run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "logging:warn/console,config,logging:debug/json"
	if got := strings.Join(calls, ","); got != want {
		t.Fatalf("expected call order %q, got %q", want, got)
	}
}

func TestRunReturnsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps(t, testConfig())
	defer restore()

	notifyContextFunc = func(parent context.Context, sig ...os.Signal) (context.Context, context.CancelFunc) {
		return context.WithCancel(parent)
	}
	startHTTPServerFunc = func(*http.Server) error { return errors.New("address in use") }

	if err := run(); err == nil || err.Error() != "address in use" {
		t.Fatalf("expected server error, got %v", err)
	}
}

func TestRunContinuesWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.RedisURL = "redis://cache:6379/0"
	restore := stubServerDeps(t, cfg)
	defer restore()

	var gotAddr string
	initRedisFunc = func(ctx context.Context, addr string) (*redis.Client, error) {
		gotAddr = addr
		return nil, errors.New("connection refused")
	}

	if err := run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAddr != cfg.RedisURL {
		t.Fatalf("expected redis url passed through, got %q", gotAddr)
	}
}

func TestNewSenderFallsBackToLog(t *testing.T) {
	sender, err := newSender(context.Background(), trace.NewNoopTracerProvider().Tracer("test"), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(*bot.LogSender); !ok {
		t.Fatalf("expected log sender, got %T", sender)
	}
}

func TestNewAnnotator(t *testing.T) {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	cfg := testConfig()
	if a := newAnnotator(tracer, cfg); a != nil {
		t.Fatalf("expected nil annotator without key, got %T", a)
	}

	cfg.OpenAIAPIKey = "sk-test"
	cfg.OpenAIModel = "gpt-4o-mini"
	if _, ok := newAnnotator(tracer, cfg).(*advisor.Annotator); !ok {
		t.Fatal("expected OpenAI annotator when key is set")
	}
}

func stubServerDeps(t *testing.T, cfg *config.Config) func() {
	t.Helper()
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origSetupLogging := setupLoggingFunc
	origInitTracer := initTracerFunc
	origInitRedis := initRedisFunc
	origNewFetcher := newFetcherFunc
	origStartSweeper := startSweeperFunc
	origNewRouter := newRouterFunc
	origNotifyContext := notifyContextFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() (*config.Config, error) { return cfg, nil }
	setupLoggingFunc = func(string, string) zerolog.Level { return zerolog.InfoLevel }
	initTracerFunc = func(ctx context.Context, enabled bool, endpoint string) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	initRedisFunc = func(context.Context, string) (*redis.Client, error) {
		t.Fatal("redis must not be dialled")
		return nil, nil
	}
	newFetcherFunc = func(trace.Tracer, *config.Config) service.SeriesFetcher { return stubFetcher{} }
	startSweeperFunc = func(*job.Sweeper, context.Context) <-chan struct{} {
		done := make(chan struct{})
		close(done)
		return done
	}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	notifyContextFunc = func(parent context.Context, sig ...os.Signal) (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(parent)
		cancel()
		return ctx, cancel
	}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		setupLoggingFunc = origSetupLogging
		initTracerFunc = origInitTracer
		initRedisFunc = origInitRedis
		newFetcherFunc = origNewFetcher
		startSweeperFunc = origStartSweeper
		newRouterFunc = origNewRouter
		notifyContextFunc = origNotifyContext
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}

type stubFetcher struct{}

func (stubFetcher) FetchSeries(ctx context.Context, symbol string, granularity time.Duration) (domain.Series, error) {
	return domain.Series{Symbol: symbol, Granularity: granularity}, nil
}
