package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the signal bot.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SweepsTotal       prometheus.Counter
	SweepDuration     prometheus.Histogram
	LastSweepUnix     prometheus.Gauge
	SymbolsEvaluated  *prometheus.CounterVec // labels: outcome=signal|none|error
	SignalsTotal      *prometheus.CounterVec // labels: direction
	NotificationsSent *prometheus.CounterVec // labels: result=sent|failed
	AnnotationErrors  prometheus.Counter
}

// New registers all instruments on a fresh registry together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		SweepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalbot_sweeps_total",
			Help: "Total completed sweeps over the tracked symbol set",
		}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signalbot_sweep_duration_seconds",
			Help:    "Wall time of one sweep including notification pacing",
			Buckets: []float64{1, 5, 10, 20, 30, 60, 120, 300},
		}),
		LastSweepUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signalbot_last_sweep_timestamp_seconds",
			Help: "Unix time the last sweep finished",
		}),
		SymbolsEvaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalbot_symbols_evaluated_total",
			Help: "Per-symbol evaluations by outcome",
		}, []string{"outcome"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalbot_signals_total",
			Help: "Signals fired by direction",
		}, []string{"direction"}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalbot_notifications_total",
			Help: "Outbound notifications by result",
		}, []string{"result"}),
		AnnotationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalbot_annotation_errors_total",
			Help: "Annotation calls that failed and fell back to the static line",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SweepsTotal,
		m.SweepDuration,
		m.LastSweepUnix,
		m.SymbolsEvaluated,
		m.SignalsTotal,
		m.NotificationsSent,
		m.AnnotationErrors,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveSweep(started, finished time.Time) {
	if m == nil {
		return
	}
	m.SweepsTotal.Inc()
	m.SweepDuration.Observe(finished.Sub(started).Seconds())
	m.LastSweepUnix.Set(float64(finished.Unix()))
}

func (m *Metrics) SymbolOutcome(outcome string) {
	if m == nil {
		return
	}
	m.SymbolsEvaluated.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SignalFired(direction string) {
	if m == nil {
		return
	}
	m.SignalsTotal.WithLabelValues(direction).Inc()
}

func (m *Metrics) Notification(ok bool) {
	if m == nil {
		return
	}
	result := "sent"
	if !ok {
		result = "failed"
	}
	m.NotificationsSent.WithLabelValues(result).Inc()
}

func (m *Metrics) AnnotationFailed() {
	if m == nil {
		return
	}
	m.AnnotationErrors.Inc()
}
