// Package notifier formats signals and delivers them one at a time with a
// minimum spacing between sends.
package notifier

import (
	"context"
	"strings"
	"sync"
	"time"

	"coin-signal-bot/internal/domain"
	"coin-signal-bot/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

type Sender interface {
	Send(ctx context.Context, text string) error
}

type Annotator interface {
	Annotate(ctx context.Context, text string) (string, error)
}

type Options struct {
	// Delay is the minimum spacing between two sends.
	Delay time.Duration
	// CycleSummary sends a recap after sweeps that fired signals.
	CycleSummary      bool
	AnnotationTimeout time.Duration
	Metrics           *metrics.Metrics
}

type Notifier struct {
	tracer    trace.Tracer
	sender    Sender
	annotator Annotator
	limiter   *rate.Limiter
	mu        sync.Mutex
	summary   bool
	timeout   time.Duration
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// New builds a Notifier. annotator may be nil.
func New(tracer trace.Tracer, sender Sender, annotator Annotator, opts Options) *Notifier {
	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}
	if opts.AnnotationTimeout <= 0 {
		opts.AnnotationTimeout = 20 * time.Second
	}
	return &Notifier{
		tracer:    tracer,
		sender:    sender,
		annotator: annotator,
		limiter:   rate.NewLimiter(limit, 1),
		summary:   opts.CycleSummary,
		timeout:   opts.AnnotationTimeout,
		metrics:   opts.Metrics,
		logger:    log.With().Str("component", "notifier").Logger(),
	}
}

// NotifySignal formats, annotates and sends sig. It reports whether the send succeeded.
func (n *Notifier) NotifySignal(ctx context.Context, sig domain.Signal) bool {
	ctx, span := n.tracer.Start(ctx, "notifier.notify-signal", trace.WithAttributes(
		attribute.String("symbol", sig.Symbol),
		attribute.String("direction", string(sig.Direction)),
	))
	defer span.End()

	text := FormatSignal(sig)
	if n.annotator != nil {
		text = withAnnotation(text, n.annotate(ctx, text))
	}
	return n.send(ctx, text)
}

// NotifyText sends a free-form message.
func (n *Notifier) NotifyText(ctx context.Context, text string) bool {
	ctx, span := n.tracer.Start(ctx, "notifier.notify-text")
	defer span.End()
	return n.send(ctx, text)
}

// FinishCycle sends the end-of-sweep message: a single "no signals" notice when
// nothing fired, otherwise the recap if enabled. It reports whether anything was sent.
func (n *Notifier) FinishCycle(ctx context.Context, report domain.SweepReport) bool {
	if len(report.Signals) == 0 {
		return n.NotifyText(ctx, noSignalsText)
	}
	if !n.summary {
		return false
	}
	return n.NotifyText(ctx, FormatSummary(report))
}

func (n *Notifier) annotate(ctx context.Context, text string) string {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	note, err := n.annotator.Annotate(ctx, text)
	note = strings.TrimSpace(note)
	if err != nil || note == "" {
		n.logger.Warn().Err(err).Msg("annotation failed, using fallback")
		n.metrics.AnnotationFailed()
		return annotationUnavailable
	}
	return note
}

func (n *Notifier) send(ctx context.Context, text string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.limiter.Wait(ctx); err != nil {
		n.logger.Warn().Err(err).Msg("notification pacing interrupted")
		n.metrics.Notification(false)
		return false
	}
	if err := n.sender.Send(ctx, text); err != nil {
		n.logger.Error().Err(err).Msg("notification send failed")
		n.metrics.Notification(false)
		return false
	}
	n.metrics.Notification(true)
	return true
}
