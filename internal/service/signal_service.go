package service

import (
	"context"
	"fmt"
	"time"

	"coin-signal-bot/internal/domain"
	"coin-signal-bot/internal/signal"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type SeriesFetcher interface {
	FetchSeries(ctx context.Context, symbol string, granularity time.Duration) (domain.Series, error)
}

// Evaluation is the outcome of running one symbol through the pipeline.
// Signal is nil when the classifier did not fire.
type Evaluation struct {
	Symbol    string
	LastClose float64
	Snapshot  domain.IndicatorSnapshot
	Signal    *domain.Signal
}

// SignalService chains fetch, indicator computation, classification and exit levels.
type SignalService struct {
	tracer      trace.Tracer
	fetcher     SeriesFetcher
	engine      *signal.IndicatorEngine
	classifier  signal.Classifier
	risk        signal.RiskPolicy
	granularity time.Duration
	now         func() time.Time
}

func NewSignalService(
	tracer trace.Tracer,
	fetcher SeriesFetcher,
	engine *signal.IndicatorEngine,
	classifier signal.Classifier,
	risk signal.RiskPolicy,
	granularity time.Duration,
) *SignalService {
	return &SignalService{
		tracer:      tracer,
		fetcher:     fetcher,
		engine:      engine,
		classifier:  classifier,
		risk:        risk,
		granularity: granularity,
		now:         time.Now,
	}
}

func (s *SignalService) Fetch(ctx context.Context, symbol string) (domain.Series, error) {
	return s.fetcher.FetchSeries(ctx, symbol, s.granularity)
}

// Evaluate fetches the series for symbol and classifies it.
func (s *SignalService) Evaluate(ctx context.Context, symbol string) (Evaluation, error) {
	series, err := s.Fetch(ctx, symbol)
	if err != nil {
		return Evaluation{Symbol: symbol}, err
	}
	return s.EvaluateSeries(ctx, series)
}

// EvaluateSeries classifies an already fetched series.
func (s *SignalService) EvaluateSeries(ctx context.Context, series domain.Series) (Evaluation, error) {
	_, span := s.tracer.Start(ctx, "signal-service.evaluate", trace.WithAttributes(
		attribute.String("symbol", series.Symbol),
		attribute.String("classifier", s.classifier.Name()),
	))
	defer span.End()

	eval := Evaluation{Symbol: series.Symbol}
	if series.Len() > 0 {
		eval.LastClose = series.Last().Close
	}

	if err := series.Validate(); err != nil {
		return eval, fmt.Errorf("%w: %w", domain.ErrFetchUnavailable, err)
	}

	cur, prev, err := s.engine.Compute(series)
	if err != nil {
		return eval, err
	}
	eval.Snapshot = cur

	c, ok := s.classifier.Classify(cur, prev)
	if !ok {
		span.SetAttributes(attribute.Bool("fired", false))
		return eval, nil
	}

	tp, sl := s.risk.Levels(c.Direction, cur.Close, series)
	eval.Signal = &domain.Signal{
		Symbol:     series.Symbol,
		Direction:  c.Direction,
		Confidence: c.Confidence,
		Scored:     c.Scored,
		Price:      cur.Close,
		TakeProfit: tp,
		StopLoss:   sl,
		Reasons:    c.Reasons,
		Snapshot:   cur,
		Time:       s.now().UTC(),
	}
	span.SetAttributes(
		attribute.Bool("fired", true),
		attribute.String("direction", string(c.Direction)),
		attribute.Float64("confidence", c.Confidence),
	)
	return eval, nil
}
