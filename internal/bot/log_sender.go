package bot

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogSender writes messages to the log instead of Telegram. It is used when
// no bot credentials are configured.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender() *LogSender {
	return &LogSender{logger: log.With().Str("component", "log-sender").Logger()}
}

func (s *LogSender) Send(ctx context.Context, text string) error {
	s.logger.Info().Str("text", text).Msg("notification")
	return nil
}
