package handler

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"coin-signal-bot/internal/cache"
	"coin-signal-bot/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetSymbols godoc
// @Summary      List tracked symbols
// @Description  Returns the product IDs evaluated on every sweep, in sweep order
// @Tags         sweeps
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/symbols [get]
func (h *Handler) GetSymbols(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symbols": h.symbols, "count": len(h.symbols)})
}

// GetLastSweep godoc
// @Summary      Get the last sweep report
// @Description  Returns per-symbol outcomes and fired signals of the most recent sweep
// @Tags         sweeps
// @Produce      json
// @Success      200  {object}  domain.SweepReport
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/sweeps/last [get]
func (h *Handler) GetLastSweep(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-last-sweep")
	defer span.End()

	if h.reports != nil {
		report, err := h.reports.Last(ctx)
		if err == nil {
			c.JSON(http.StatusOK, report)
			return
		}
		if !errors.Is(err, cache.ErrNoSweep) && h.sweeper == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if h.sweeper != nil {
		if report, ok := h.sweeper.LastReport(); ok {
			c.JSON(http.StatusOK, report)
			return
		}
	} else if h.reports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sweep reports unavailable"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": cache.ErrNoSweep.Error()})
}

// EvaluateSymbol godoc
// @Summary      Evaluate one symbol now
// @Description  Fetches candles and runs the configured classifier without sending notifications
// @Tags         signals
// @Produce      json
// @Param        symbol  path  string  true  "Product ID (e.g., BTC-USD)"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/signals/{symbol} [get]
func (h *Handler) EvaluateSymbol(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.evaluate-symbol")
	defer span.End()

	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	span.SetAttributes(attribute.String("symbol", symbol))

	if !slices.Contains(h.symbols, symbol) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "symbol is not tracked: " + symbol,
			"symbols": h.symbols,
		})
		return
	}

	if h.evaluator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "evaluator unavailable"})
		return
	}

	eval, err := h.evaluator.Evaluate(ctx, symbol)
	switch {
	case errors.Is(err, domain.ErrInsufficientHistory):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":     eval.Symbol,
		"last_close": eval.LastClose,
		"snapshot":   eval.Snapshot,
		"signal":     eval.Signal,
	})
}
