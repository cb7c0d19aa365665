// Package signal turns a candle series into indicator snapshots, classifies them
// into trade directions and derives exit levels.
package signal

import (
	"fmt"

	"coin-signal-bot/internal/domain"
	"coin-signal-bot/internal/ta"
)

type EngineConfig struct {
	RSIPeriod  int
	EMAFast    int
	EMASlow    int
	MACDFast   int
	MACDSlow   int
	MinCandles int
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		RSIPeriod:  14,
		EMAFast:    20,
		EMASlow:    50,
		MACDFast:   12,
		MACDSlow:   26,
		MinCandles: 50,
	}
}

// IndicatorEngine computes RSI, EMA, MACD and volume statistics over a series.
type IndicatorEngine struct {
	cfg EngineConfig
}

func NewIndicatorEngine(cfg EngineConfig) *IndicatorEngine {
	def := DefaultEngineConfig()
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = def.RSIPeriod
	}
	if cfg.EMAFast <= 0 {
		cfg.EMAFast = def.EMAFast
	}
	if cfg.EMASlow <= 0 {
		cfg.EMASlow = def.EMASlow
	}
	if cfg.MACDFast <= 0 {
		cfg.MACDFast = def.MACDFast
	}
	if cfg.MACDSlow <= 0 {
		cfg.MACDSlow = def.MACDSlow
	}
	return &IndicatorEngine{cfg: cfg}
}

// WindowMax is the minimum series length Compute accepts. The previous-candle
// snapshot needs a full RSI window of its own, hence RSIPeriod+2.
func (e *IndicatorEngine) WindowMax() int {
	n := e.cfg.MinCandles
	for _, w := range []int{e.cfg.RSIPeriod + 2, e.cfg.EMAFast, e.cfg.EMASlow, e.cfg.MACDSlow, 3} {
		if w > n {
			n = w
		}
	}
	return n
}

// Compute returns snapshots for the last and the second-to-last candle.
func (e *IndicatorEngine) Compute(series domain.Series) (cur, prev domain.IndicatorSnapshot, err error) {
	n := series.Len()
	if n < e.WindowMax() {
		return cur, prev, fmt.Errorf("%s has %d candles, need %d: %w",
			series.Symbol, n, e.WindowMax(), domain.ErrInsufficientHistory)
	}

	closes := series.Closes()
	volumes := series.Volumes()
	rsi := ta.RSISeries(closes, e.cfg.RSIPeriod)
	emaFast := ta.EMASeries(closes, e.cfg.EMAFast)
	emaSlow := ta.EMASeries(closes, e.cfg.EMASlow)
	macd := ta.MACDLine(closes, e.cfg.MACDFast, e.cfg.MACDSlow)

	at := func(i int) domain.IndicatorSnapshot {
		return domain.IndicatorSnapshot{
			Close:     closes[i],
			RSI:       rsi[i],
			EMAFast:   emaFast[i],
			EMASlow:   emaSlow[i],
			MACD:      macd[i],
			MACDPrev:  macd[i-1],
			Volume:    volumes[i],
			VolumeAvg: ta.Mean(volumes[:i+1]),
		}
	}
	return at(n - 1), at(n - 2), nil
}
