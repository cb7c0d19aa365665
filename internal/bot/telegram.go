// Package bot delivers outbound messages to a Telegram chat.
package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"coin-signal-bot/internal/domain"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tele "gopkg.in/telebot.v3"
)

var ErrMissingCredentials = errors.New("telegram token and chat id are required")

var newBot = tele.NewBot

type TelegramOptions struct {
	Token  string
	ChatID int64
	// APIURL overrides the Bot API endpoint.
	APIURL string
	Client *http.Client
	// Offline skips the getMe handshake.
	Offline bool
}

// TelegramSender posts Markdown text to a single chat.
type TelegramSender struct {
	bot    *tele.Bot
	chat   tele.ChatID
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewTelegramSender creates the bot handle, retrying the getMe handshake with
// exponential backoff until ctx is done or 30 seconds elapse.
func NewTelegramSender(ctx context.Context, tracer trace.Tracer, opts TelegramOptions) (*TelegramSender, error) {
	if opts.Token == "" || opts.ChatID == 0 {
		return nil, ErrMissingCredentials
	}

	settings := tele.Settings{
		Token:   opts.Token,
		URL:     opts.APIURL,
		Client:  opts.Client,
		Offline: opts.Offline,
	}
	if settings.Client == nil {
		settings.Client = &http.Client{Timeout: 15 * time.Second}
	}

	logger := log.With().Str("component", "telegram").Logger()

	var b *tele.Bot
	operation := func() error {
		var err error
		b, err = newBot(settings)
		if err != nil {
			logger.Warn().Err(err).Msg("telegram handshake failed")
		}
		return err
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(strategy, ctx)); err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramSender{
		bot:    b,
		chat:   tele.ChatID(opts.ChatID),
		tracer: tracer,
		logger: logger,
	}, nil
}

// Send posts text in Markdown mode. Errors wrap domain.ErrNotifyFailed.
func (s *TelegramSender) Send(ctx context.Context, text string) error {
	_, span := s.tracer.Start(ctx, "telegram.send", trace.WithAttributes(
		attribute.Int("length", len(text)),
	))
	defer span.End()

	if _, err := s.bot.Send(s.chat, text, tele.ModeMarkdown); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return fmt.Errorf("%w: %w", domain.ErrNotifyFailed, err)
	}
	s.logger.Debug().Int64("chat_id", int64(s.chat)).Msg("message delivered")
	return nil
}
