package handler

import (
	"context"
	"net/http"

	"coin-signal-bot/internal/domain"
	"coin-signal-bot/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type SymbolEvaluator interface {
	Evaluate(ctx context.Context, symbol string) (service.Evaluation, error)
}

type ReportReader interface {
	Last(ctx context.Context) (domain.SweepReport, error)
}

type LastReporter interface {
	LastReport() (domain.SweepReport, bool)
}

type Handler struct {
	tracer    trace.Tracer
	symbols   []string
	evaluator SymbolEvaluator
	reports   ReportReader
	sweeper   LastReporter
	apiKey    string
}

func New(tracer trace.Tracer, symbols []string, evaluator SymbolEvaluator, apiKey string) *Handler {
	return &Handler{
		tracer:    tracer,
		symbols:   symbols,
		evaluator: evaluator,
		apiKey:    apiKey,
	}
}

// SetReportReader wires the persisted sweep store. Optional.
func (h *Handler) SetReportReader(r ReportReader) {
	h.reports = r
}

// SetSweeper wires the in-memory fallback for the last sweep report.
func (h *Handler) SetSweeper(s LastReporter) {
	h.sweeper = s
}

func (h *Handler) RegisterRoutes(r *gin.Engine, metricsHandler http.Handler) {
	r.GET("/health", h.Health)
	r.GET("/api/symbols", h.GetSymbols)
	r.GET("/api/sweeps/last", h.GetLastSweep)
	r.GET("/api/signals/:symbol", APIKeyAuth(h.apiKey), h.EvaluateSymbol)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}
}

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
