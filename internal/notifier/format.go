package notifier

import (
	"fmt"
	"strings"

	"coin-signal-bot/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	annotationPrefix      = "🤖 AI assessment: "
	annotationUnavailable = "AI assessment is unavailable."
	noSignalsText         = "🔍 Sweep finished: no signals this cycle."
)

// formatPrice rounds to 4 decimals and drops trailing zeros.
func formatPrice(v float64) string {
	return decimal.NewFromFloat(v).Round(4).String()
}

// FormatSignal renders a signal as a Telegram Markdown message.
func FormatSignal(sig domain.Signal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "💹 *%s SIGNAL* `%s`\n", sig.Direction, sig.Symbol)
	fmt.Fprintf(&b, "Price: `%s`\n", formatPrice(sig.Price))
	fmt.Fprintf(&b, "RSI: `%.1f`\n", sig.Snapshot.RSI)
	if sig.Snapshot.EMAFast > sig.Snapshot.EMASlow {
		b.WriteString("Trend: Up ✅\n")
	} else {
		b.WriteString("Trend: Down ⚠️\n")
	}
	if sig.Scored {
		fmt.Fprintf(&b, "Confidence: `%.0f`\n", sig.Confidence)
	}
	fmt.Fprintf(&b, "🎯 Profit target: `%s`\n", formatPrice(sig.TakeProfit))
	fmt.Fprintf(&b, "🛑 Stop loss: `%s`", formatPrice(sig.StopLoss))

	for _, r := range sig.Reasons {
		fmt.Fprintf(&b, "\n• %s", r)
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// withAnnotation appends free-form model text with legacy Markdown
// control characters escaped.
func withAnnotation(text, note string) string {
	return text + "\n\n" + annotationPrefix + markdownEscaper.Replace(note)
}

// FormatSummary lists the fired signals and failures of a finished sweep.
func FormatSummary(report domain.SweepReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Sweep finished: %d signal(s), %d of %d symbols failed.",
		len(report.Signals), report.Failures, len(report.Results))
	for _, sig := range report.Signals {
		fmt.Fprintf(&b, "\n%s `%s` @ `%s`", sig.Direction, sig.Symbol, formatPrice(sig.Price))
	}
	return b.String()
}
