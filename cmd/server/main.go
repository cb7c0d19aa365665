package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"coin-signal-bot/internal/advisor"
	"coin-signal-bot/internal/bot"
	"coin-signal-bot/internal/cache"
	"coin-signal-bot/internal/config"
	"coin-signal-bot/internal/handler"
	"coin-signal-bot/internal/job"
	"coin-signal-bot/internal/logging"
	"coin-signal-bot/internal/metrics"
	"coin-signal-bot/internal/notifier"
	"coin-signal-bot/internal/provider"
	"coin-signal-bot/internal/service"
	"coin-signal-bot/internal/signal"
	"coin-signal-bot/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "coin-signal-bot/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	setupLoggingFunc = logging.Setup
	initTracerFunc   = tracing.InitTracer
	initRedisFunc    = cache.InitRedis
	newFetcherFunc   = func(tracer trace.Tracer, cfg *config.Config) service.SeriesFetcher {
		return provider.NewCoinbaseProvider(tracer, provider.CoinbaseOptions{
			BaseURL:           cfg.CoinbaseBaseURL,
			Timeout:           cfg.RequestTimeout(),
			RequestsPerSecond: cfg.CoinbaseRPS,
		})
	}
	newSenderFunc    = newSender
	newAnnotatorFunc = newAnnotator
	startSweeperFunc = func(s *job.Sweeper, ctx context.Context) <-chan struct{} {
		done := make(chan struct{})
		go func() {
			defer close(done)
			s.Start(ctx)
		}()
		return done
	}
	newRouterFunc          = gin.Default
	notifyContextFunc      = ossignal.NotifyContext
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Coin Signal Bot API
// @version         1.0
// @description     Technical-analysis signal sweeps over Coinbase candles with Telegram delivery.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("coin-signal-bot exited")
	}
}

func run() error {
	if err := loadEnvFunc(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env")
	}

	// config.Load logs its own warnings; reconfigured once defaults apply.
	setupLoggingFunc(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	cfg, err := loadConfigFunc()
	if err != nil {
		return err
	}
	setupLoggingFunc(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := notifyContextFunc(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, tracer, err := initTracerFunc(ctx, cfg.TracingEnabled, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	m := metrics.New()

	var store *cache.SweepStore
	if cfg.RedisURL != "" {
		client, err := initRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, sweep reports kept in memory only")
		} else {
			defer closeRedis(client)
			store = cache.NewSweepStore(client)
		}
	}

	engine := signal.NewIndicatorEngine(signal.EngineConfig{MinCandles: cfg.MinCandles})
	classifier, err := signal.NewClassifier(cfg.ClassifierPolicy, cfg.SignalThreshold)
	if err != nil {
		return err
	}
	risk, err := signal.NewRiskPolicy(cfg.RiskPolicy)
	if err != nil {
		return err
	}
	signalService := service.NewSignalService(tracer, newFetcherFunc(tracer, cfg), engine, classifier, risk, cfg.Granularity())

	sender, err := newSenderFunc(ctx, tracer, cfg)
	if err != nil {
		return err
	}
	n := notifier.New(tracer, sender, newAnnotatorFunc(tracer, cfg), notifier.Options{
		Delay:        cfg.NotifyDelay,
		CycleSummary: cfg.CycleSummary,
		Metrics:      m,
	})

	opts := job.SweeperOptions{
		Symbols:     cfg.Symbols,
		Interval:    cfg.SweepInterval(),
		Cron:        cfg.SweepCron,
		Concurrency: cfg.FetchConcurrency,
		Metrics:     m,
	}
	if store != nil {
		opts.Store = store
	}
	sweeper := job.NewSweeper(tracer, signalService, n, opts)

	log.Info().
		Int("symbols", len(cfg.Symbols)).
		Str("classifier", classifier.Name()).
		Str("risk", risk.Name()).
		Dur("granularity", cfg.Granularity()).
		Bool("telegram", cfg.TelegramEnabled()).
		Msg("coin-signal-bot starting")
	sweeperDone := startSweeperFunc(sweeper, ctx)

	h := handler.New(tracer, cfg.Symbols, signalService, cfg.APIKey)
	h.SetSweeper(sweeper)
	if store != nil {
		h.SetReportReader(store)
	}

	r := newRouterFunc()
	r.Use(otelgin.Middleware(tracing.ServiceName))
	h.RegisterRoutes(r, m.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := startHTTPServerFunc(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case runErr = <-serverErr:
		log.Error().Err(runErr).Msg("http server failed")
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	select {
	case <-sweeperDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("sweeper did not stop before shutdown deadline")
	}

	log.Info().Msg("coin-signal-bot exiting")
	return runErr
}

func newSender(ctx context.Context, tracer trace.Tracer, cfg *config.Config) (notifier.Sender, error) {
	if !cfg.TelegramEnabled() {
		return bot.NewLogSender(), nil
	}
	return bot.NewTelegramSender(ctx, tracer, bot.TelegramOptions{
		Token:  cfg.TelegramBotToken,
		ChatID: cfg.TelegramChatID,
	})
}

// newAnnotator returns a nil interface when no OpenAI key is configured.
func newAnnotator(tracer trace.Tracer, cfg *config.Config) notifier.Annotator {
	if cfg.OpenAIAPIKey == "" {
		return nil
	}
	return advisor.NewAnnotator(tracer, advisor.NewOpenAIClient(cfg.OpenAIAPIKey), cfg.OpenAIModel)
}

func closeRedis(client *redis.Client) {
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing redis client")
	}
}
