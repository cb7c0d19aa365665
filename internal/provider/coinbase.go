package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"coin-signal-bot/internal/domain"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	coinbaseBaseURL   = "https://api.exchange.coinbase.com"
	coinbaseUserAgent = "coin-signal-bot/1.0"
)

// StatusError is returned when the exchange answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("coinbase API error %d: %s", e.StatusCode, e.Body)
}

type CoinbaseOptions struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// CoinbaseProvider fetches candle history from the Coinbase Exchange public API.
type CoinbaseProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *rate.Limiter
}

// NewCoinbaseProvider creates a provider. Zero options fall back to the public
// endpoint, a 15 second timeout and 5 requests per second.
func NewCoinbaseProvider(tracer trace.Tracer, opts CoinbaseOptions) *CoinbaseProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = coinbaseBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	return &CoinbaseProvider{
		client:  &http.Client{Timeout: opts.Timeout},
		baseURL: opts.BaseURL,
		tracer:  tracer,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
	}
}

// FetchSeries returns the candle history of symbol at the given granularity,
// oldest first. Every failure wraps domain.ErrFetchUnavailable.
func (p *CoinbaseProvider) FetchSeries(ctx context.Context, symbol string, granularity time.Duration) (domain.Series, error) {
	ctx, span := p.tracer.Start(ctx, "coinbase.fetch-series", trace.WithAttributes(
		attribute.String("symbol", symbol),
		attribute.Int64("granularity_seconds", int64(granularity/time.Second)),
	))
	defer span.End()

	series, err := p.fetchSeries(ctx, symbol, granularity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return domain.Series{}, fmt.Errorf("fetch %s candles: %w: %w", symbol, domain.ErrFetchUnavailable, err)
	}
	span.SetAttributes(attribute.Int("candles", series.Len()))
	return series, nil
}

func (p *CoinbaseProvider) fetchSeries(ctx context.Context, symbol string, granularity time.Duration) (domain.Series, error) {
	seconds := int64(granularity / time.Second)
	if seconds <= 0 {
		return domain.Series{}, fmt.Errorf("granularity must be a positive number of seconds, got %s", granularity)
	}

	endpoint := fmt.Sprintf("%s/products/%s/candles?granularity=%d",
		p.baseURL, url.PathEscape(symbol), seconds)

	body, err := p.doRequest(ctx, endpoint)
	if err != nil {
		return domain.Series{}, err
	}

	candles, err := parseCandles(body)
	if err != nil {
		return domain.Series{}, err
	}

	return domain.Series{Symbol: symbol, Granularity: granularity, Candles: candles}, nil
}

func (p *CoinbaseProvider) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", coinbaseUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return io.ReadAll(resp.Body)
}

var errNotArray = errors.New("candle payload is not an array")

// parseCandles decodes rows of [time, low, high, open, close, volume], sorts them
// ascending and keeps the last row seen for a repeated timestamp.
func parseCandles(body []byte) ([]domain.Candle, error) {
	var raw any
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse candles: %w", err)
	}
	rows, ok := raw.([]any)
	if !ok {
		return nil, errNotArray
	}

	byTime := make(map[int64]domain.Candle, len(rows))
	for i, r := range rows {
		fields, ok := r.([]any)
		if !ok || len(fields) < 6 {
			return nil, fmt.Errorf("candle row %d: expected 6 fields", i)
		}
		var vals [6]float64
		for j := range vals {
			v, err := toFloat(fields[j])
			if err != nil {
				return nil, fmt.Errorf("candle row %d field %d: %w", i, j, err)
			}
			vals[j] = v
		}
		if err := checkRow(vals); err != nil {
			return nil, fmt.Errorf("candle row %d: %w", i, err)
		}
		ts := int64(vals[0])
		byTime[ts] = domain.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Low:    vals[1],
			High:   vals[2],
			Open:   vals[3],
			Close:  vals[4],
			Volume: vals[5],
		}
	}

	candles := make([]domain.Candle, 0, len(byTime))
	for _, c := range byTime {
		candles = append(candles, c)
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}

// checkRow rejects non-finite values, non-positive prices, negative volume
// and an inverted low/high range.
func checkRow(vals [6]float64) error {
	for j, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("field %d is not finite", j)
		}
	}
	for j := 1; j <= 4; j++ {
		if vals[j] <= 0 {
			return fmt.Errorf("field %d: non-positive price %v", j, vals[j])
		}
	}
	if vals[5] < 0 {
		return fmt.Errorf("negative volume %v", vals[5])
	}
	if vals[1] > vals[2] {
		return fmt.Errorf("low %v above high %v", vals[1], vals[2])
	}
	return nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("unexpected value %v (%T)", v, v)
	}
}
