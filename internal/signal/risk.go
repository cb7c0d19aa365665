package signal

import (
	"fmt"
	"math/rand"
	"strings"

	"coin-signal-bot/internal/domain"
)

const (
	RiskVolatility = "volatility"
	RiskRandom     = "random"
)

// RiskPolicy derives take-profit and stop-loss levels for a fired signal.
// BUY profits above the price, SELL below it.
type RiskPolicy interface {
	Levels(dir domain.Direction, price float64, series domain.Series) (takeProfit, stopLoss float64)
	Name() string
}

func NewRiskPolicy(name string) (RiskPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case RiskVolatility, "":
		return NewVolatilityBandPolicy(), nil
	case RiskRandom:
		return NewRandomBandPolicy(), nil
	default:
		return nil, fmt.Errorf("unknown risk policy %q", name)
	}
}

func sideOf(dir domain.Direction) float64 {
	if dir == domain.DirectionSell {
		return -1
	}
	return 1
}

// VolatilityBandPolicy scales the bands by the mean candle range relative to price.
type VolatilityBandPolicy struct {
	ProfitMultiple float64
	StopMultiple   float64
}

func NewVolatilityBandPolicy() *VolatilityBandPolicy {
	return &VolatilityBandPolicy{ProfitMultiple: 1.5, StopMultiple: 0.8}
}

func (p *VolatilityBandPolicy) Name() string { return RiskVolatility }

// Volatility is mean(high-low) over the series divided by price.
func Volatility(price float64, series domain.Series) float64 {
	if price <= 0 || series.Len() == 0 {
		return 0
	}
	var sum float64
	for _, c := range series.Candles {
		sum += c.High - c.Low
	}
	return sum / float64(series.Len()) / price
}

func (p *VolatilityBandPolicy) Levels(dir domain.Direction, price float64, series domain.Series) (float64, float64) {
	vol := Volatility(price, series)
	s := sideOf(dir)
	return price * (1 + s*vol*p.ProfitMultiple), price * (1 - s*vol*p.StopMultiple)
}

// RandomBandPolicy draws the band widths uniformly on every call.
type RandomBandPolicy struct {
	ProfitMin, ProfitMax float64
	StopMin, StopMax     float64
	draw                 func() float64
}

func NewRandomBandPolicy() *RandomBandPolicy {
	return &RandomBandPolicy{
		ProfitMin: 0.02,
		ProfitMax: 0.05,
		StopMin:   0.01,
		StopMax:   0.03,
		draw:      rand.Float64,
	}
}

func (p *RandomBandPolicy) Name() string { return RiskRandom }

func (p *RandomBandPolicy) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*p.draw()
}

func (p *RandomBandPolicy) Levels(dir domain.Direction, price float64, _ domain.Series) (float64, float64) {
	s := sideOf(dir)
	tp := price * (1 + s*p.uniform(p.ProfitMin, p.ProfitMax))
	sl := price * (1 - s*p.uniform(p.StopMin, p.StopMax))
	return tp, sl
}
