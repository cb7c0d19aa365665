package domain

import (
	"errors"
	"time"
)

var (
	// ErrFetchUnavailable covers network, timeout, HTTP status and payload failures.
	ErrFetchUnavailable = errors.New("market data unavailable")
	// ErrInsufficientHistory means the series is shorter than the longest indicator window.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrNotifyFailed means the notification transport rejected or failed a send.
	ErrNotifyFailed = errors.New("notification failed")
)

type Direction string

const (
	DirectionNone Direction = ""
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// IndicatorSnapshot holds indicator values evaluated at a single candle.
type IndicatorSnapshot struct {
	Close     float64 `json:"close"`
	RSI       float64 `json:"rsi"`
	EMAFast   float64 `json:"ema_fast"`
	EMASlow   float64 `json:"ema_slow"`
	MACD      float64 `json:"macd"`
	MACDPrev  float64 `json:"macd_prev"`
	Volume    float64 `json:"volume"`
	VolumeAvg float64 `json:"volume_avg"`
}

// Signal is a fired trade-direction call with its suggested exit levels.
// Confidence is only meaningful when Scored is true.
type Signal struct {
	Symbol     string            `json:"symbol"`
	Direction  Direction         `json:"direction"`
	Confidence float64           `json:"confidence"`
	Scored     bool              `json:"scored"`
	Price      float64           `json:"price"`
	TakeProfit float64           `json:"take_profit"`
	StopLoss   float64           `json:"stop_loss"`
	Reasons    []string          `json:"reasons"`
	Snapshot   IndicatorSnapshot `json:"snapshot"`
	Time       time.Time         `json:"time"`
}

// SymbolResult is the per-symbol outcome of one sweep.
type SymbolResult struct {
	Symbol    string    `json:"symbol"`
	LastClose float64   `json:"last_close,omitempty"`
	Direction Direction `json:"direction,omitempty"`
	Notified  bool      `json:"notified,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// SweepReport summarises one pass over the tracked symbol set.
type SweepReport struct {
	CycleID    string         `json:"cycle_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Results    []SymbolResult `json:"results"`
	Signals    []Signal       `json:"signals"`
	Failures   int            `json:"failures"`
}
