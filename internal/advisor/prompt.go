package advisor

import "strings"

const annotatorPrompt = `You are an experienced crypto trader reviewing automated technical-analysis signals.

Rules:
- Rate the confidence of the signal as exactly one of: High, Medium, Low.
- Follow the rating with one short reason based only on the numbers given.
- Never fabricate data that is not in the signal.
- Reply in a single line. You are talking via Telegram.`

// BuildAnnotationRequest wraps the rendered signal in the user turn.
func BuildAnnotationRequest(signalText string) string {
	var sb strings.Builder
	sb.WriteString("Briefly assess how trustworthy this signal is.\n\n")
	sb.WriteString(signalText)
	return sb.String()
}
