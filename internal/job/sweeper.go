package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"coin-signal-bot/internal/domain"
	"coin-signal-bot/internal/metrics"
	"coin-signal-bot/internal/service"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type Evaluator interface {
	Fetch(ctx context.Context, symbol string) (domain.Series, error)
	EvaluateSeries(ctx context.Context, series domain.Series) (service.Evaluation, error)
}

type SignalNotifier interface {
	NotifySignal(ctx context.Context, sig domain.Signal) bool
	FinishCycle(ctx context.Context, report domain.SweepReport) bool
}

type ReportStore interface {
	Save(ctx context.Context, report domain.SweepReport) error
}

type SweeperOptions struct {
	Symbols  []string
	Interval time.Duration
	// Cron replaces the sleep loop with a standard 5-field schedule when set.
	Cron string
	// Concurrency above 1 prefetches series in parallel before the ordered pass.
	Concurrency int
	Store       ReportStore
	Metrics     *metrics.Metrics
}

// Sweeper evaluates every tracked symbol once per cycle and notifies fired signals.
type Sweeper struct {
	tracer    trace.Tracer
	evaluator Evaluator
	notifier  SignalNotifier
	opts      SweeperOptions
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string

	mu   sync.RWMutex
	last *domain.SweepReport
}

func NewSweeper(tracer trace.Tracer, evaluator Evaluator, notifier SignalNotifier, opts SweeperOptions) *Sweeper {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Sweeper{
		tracer:    tracer,
		evaluator: evaluator,
		notifier:  notifier,
		opts:      opts,
		logger:    log.With().Str("component", "sweeper").Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Start runs sweeps until ctx is cancelled. Without a cron schedule it sweeps
// immediately and then sleeps Interval after each sweep finishes.
func (s *Sweeper) Start(ctx context.Context) {
	if s.opts.Cron != "" {
		s.startCron(ctx)
		return
	}

	s.logger.Info().
		Int("symbols", len(s.opts.Symbols)).
		Dur("interval", s.opts.Interval).
		Msg("sweeper starting")

	for {
		s.RunSweep(ctx)

		timer := time.NewTimer(s.opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Msg("sweeper stopped")
			return
		case <-timer.C:
		}
	}
}

func (s *Sweeper) startCron(ctx context.Context) {
	cronLogger := cron.PrintfLogger(&s.logger)
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))
	if _, err := c.AddFunc(s.opts.Cron, func() { s.RunSweep(ctx) }); err != nil {
		s.logger.Error().Err(err).Str("cron", s.opts.Cron).Msg("invalid sweep schedule")
		return
	}

	s.logger.Info().Str("cron", s.opts.Cron).Int("symbols", len(s.opts.Symbols)).Msg("sweeper starting on schedule")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info().Msg("sweeper stopped")
}

type prefetched struct {
	series domain.Series
	err    error
}

// RunSweep visits every symbol in configured order. Failures are recorded in the
// report and never stop the sweep.
func (s *Sweeper) RunSweep(ctx context.Context) domain.SweepReport {
	ctx, span := s.tracer.Start(ctx, "sweeper.run-sweep")
	defer span.End()

	report := domain.SweepReport{
		CycleID:   s.newID(),
		StartedAt: s.now().UTC(),
		Results:   make([]domain.SymbolResult, 0, len(s.opts.Symbols)),
	}
	logger := s.logger.With().Str("cycle_id", report.CycleID).Logger()
	logger.Info().Msg("sweep started")

	var pre []prefetched
	if s.opts.Concurrency > 1 {
		pre = s.prefetch(ctx)
	}

	for i, symbol := range s.opts.Symbols {
		if ctx.Err() != nil {
			logger.Warn().Msg("sweep cancelled")
			break
		}

		var slot *prefetched
		if pre != nil {
			slot = &pre[i]
		}

		result := domain.SymbolResult{Symbol: symbol}
		eval, err := s.evaluateSymbol(ctx, symbol, slot)
		result.LastClose = eval.LastClose
		switch {
		case err != nil:
			result.Error = err.Error()
			report.Failures++
			s.opts.Metrics.SymbolOutcome("error")
			logger.Warn().Err(err).Str("symbol", symbol).Msg("symbol evaluation failed")
		case eval.Signal == nil:
			s.opts.Metrics.SymbolOutcome("none")
			logger.Debug().Str("symbol", symbol).Float64("rsi", eval.Snapshot.RSI).Msg("no signal")
		default:
			sig := *eval.Signal
			result.Direction = sig.Direction
			s.opts.Metrics.SymbolOutcome("signal")
			s.opts.Metrics.SignalFired(string(sig.Direction))
			logger.Info().
				Str("symbol", symbol).
				Str("direction", string(sig.Direction)).
				Float64("price", sig.Price).
				Float64("confidence", sig.Confidence).
				Msg("signal fired")
			result.Notified = s.notifier.NotifySignal(ctx, sig)
			report.Signals = append(report.Signals, sig)
		}
		report.Results = append(report.Results, result)
	}

	if ctx.Err() == nil {
		s.notifier.FinishCycle(ctx, report)
	}

	report.FinishedAt = s.now().UTC()
	s.opts.Metrics.ObserveSweep(report.StartedAt, report.FinishedAt)
	s.remember(ctx, report)

	span.SetAttributes(
		attribute.Int("symbols", len(report.Results)),
		attribute.Int("signals", len(report.Signals)),
		attribute.Int("failures", report.Failures),
	)
	logger.Info().
		Int("symbols", len(report.Results)).
		Int("signals", len(report.Signals)).
		Int("failures", report.Failures).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("sweep finished")
	return report
}

func (s *Sweeper) prefetch(ctx context.Context) []prefetched {
	out := make([]prefetched, len(s.opts.Symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, symbol := range s.opts.Symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					out[i].err = fmt.Errorf("panic fetching %s: %v", symbol, r)
				}
			}()
			out[i].series, out[i].err = s.evaluator.Fetch(gctx, symbol)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *Sweeper) evaluateSymbol(ctx context.Context, symbol string, slot *prefetched) (eval service.Evaluation, err error) {
	defer func() {
		if r := recover(); r != nil {
			eval = service.Evaluation{Symbol: symbol}
			err = fmt.Errorf("panic evaluating %s: %v", symbol, r)
		}
	}()

	var series domain.Series
	if slot != nil {
		series, err = slot.series, slot.err
	} else {
		series, err = s.evaluator.Fetch(ctx, symbol)
	}
	if err != nil {
		return service.Evaluation{Symbol: symbol}, err
	}
	return s.evaluator.EvaluateSeries(ctx, series)
}

func (s *Sweeper) remember(ctx context.Context, report domain.SweepReport) {
	s.mu.Lock()
	s.last = &report
	s.mu.Unlock()

	if s.opts.Store == nil {
		return
	}
	if err := s.opts.Store.Save(ctx, report); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store sweep report")
	}
}

// LastReport returns the most recent completed sweep held in memory.
func (s *Sweeper) LastReport() (domain.SweepReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return domain.SweepReport{}, false
	}
	return *s.last, true
}
