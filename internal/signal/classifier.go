package signal

import (
	"fmt"
	"strings"

	"coin-signal-bot/internal/domain"
)

const (
	PolicyCrossover = "crossover"
	PolicyWeighted  = "weighted"
)

// Classification is the classifier verdict for one symbol.
type Classification struct {
	Direction  domain.Direction
	Confidence float64
	Scored     bool
	Reasons    []string
}

// Classifier maps the latest two snapshots to a direction. ok is false when no signal fires.
type Classifier interface {
	Classify(cur, prev domain.IndicatorSnapshot) (c Classification, ok bool)
	Name() string
}

// NewClassifier builds the policy selected by name.
func NewClassifier(name string, threshold float64) (Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyCrossover:
		return NewCrossoverPolicy(), nil
	case PolicyWeighted, "":
		return NewWeightedVotePolicy(threshold), nil
	default:
		return nil, fmt.Errorf("unknown classifier policy %q", name)
	}
}

// CrossoverPolicy fires when price crosses the fast EMA in the direction of the
// EMA trend while RSI sits on the opposite side of its band. It does not score.
type CrossoverPolicy struct {
	BuyRSIBelow  float64
	SellRSIAbove float64
}

func NewCrossoverPolicy() *CrossoverPolicy {
	return &CrossoverPolicy{BuyRSIBelow: 40, SellRSIAbove: 60}
}

func (p *CrossoverPolicy) Name() string { return PolicyCrossover }

func (p *CrossoverPolicy) Classify(cur, prev domain.IndicatorSnapshot) (Classification, bool) {
	if cur.EMAFast > cur.EMASlow && cur.RSI < p.BuyRSIBelow && cur.Close > cur.EMAFast && prev.Close < prev.EMAFast {
		return Classification{
			Direction: domain.DirectionBuy,
			Reasons: []string{
				"EMA fast above EMA slow",
				fmt.Sprintf("RSI %.1f below %.0f", cur.RSI, p.BuyRSIBelow),
				"close crossed above EMA fast",
			},
		}, true
	}
	if cur.EMAFast < cur.EMASlow && cur.RSI > p.SellRSIAbove && cur.Close < cur.EMAFast && prev.Close > prev.EMAFast {
		return Classification{
			Direction: domain.DirectionSell,
			Reasons: []string{
				"EMA fast below EMA slow",
				fmt.Sprintf("RSI %.1f above %.0f", cur.RSI, p.SellRSIAbove),
				"close crossed below EMA fast",
			},
		}, true
	}
	return Classification{}, false
}

// WeightedVotePolicy sums fixed-size votes from RSI, MACD slope, EMA trend and a
// volume bonus, then compares the total against a symmetric threshold.
type WeightedVotePolicy struct {
	Threshold     float64
	Vote          float64
	RSIOversold   float64
	RSIOverbought float64
	VolumeFactor  float64
}

func NewWeightedVotePolicy(threshold float64) *WeightedVotePolicy {
	return &WeightedVotePolicy{
		Threshold:     threshold,
		Vote:          25,
		RSIOversold:   30,
		RSIOverbought: 70,
		VolumeFactor:  1.1,
	}
}

func (p *WeightedVotePolicy) Name() string { return PolicyWeighted }

// Score returns the vote total and the fired vote descriptions in evaluation order.
func (p *WeightedVotePolicy) Score(cur domain.IndicatorSnapshot) (float64, []string) {
	var score float64
	reasons := make([]string, 0, 4)

	switch {
	case cur.RSI < p.RSIOversold:
		score += p.Vote
		reasons = append(reasons, fmt.Sprintf("RSI %.1f oversold (+%.0f)", cur.RSI, p.Vote))
	case cur.RSI > p.RSIOverbought:
		score -= p.Vote
		reasons = append(reasons, fmt.Sprintf("RSI %.1f overbought (-%.0f)", cur.RSI, p.Vote))
	}

	switch {
	case cur.MACD > cur.MACDPrev:
		score += p.Vote
		reasons = append(reasons, fmt.Sprintf("MACD rising (+%.0f)", p.Vote))
	case cur.MACD < cur.MACDPrev:
		score -= p.Vote
		reasons = append(reasons, fmt.Sprintf("MACD falling (-%.0f)", p.Vote))
	}

	switch {
	case cur.EMAFast > cur.EMASlow:
		score += p.Vote
		reasons = append(reasons, fmt.Sprintf("EMA fast above slow (+%.0f)", p.Vote))
	case cur.EMAFast < cur.EMASlow:
		score -= p.Vote
		reasons = append(reasons, fmt.Sprintf("EMA fast below slow (-%.0f)", p.Vote))
	}

	if cur.VolumeAvg > 0 && cur.Volume > p.VolumeFactor*cur.VolumeAvg {
		score += p.Vote
		reasons = append(reasons, fmt.Sprintf("volume %.2fx average (+%.0f)", cur.Volume/cur.VolumeAvg, p.Vote))
	}

	return score, reasons
}

func (p *WeightedVotePolicy) Classify(cur, _ domain.IndicatorSnapshot) (Classification, bool) {
	score, reasons := p.Score(cur)
	c := Classification{Confidence: score, Scored: true, Reasons: reasons}
	switch {
	case score >= p.Threshold:
		c.Direction = domain.DirectionBuy
	case score <= -p.Threshold:
		c.Direction = domain.DirectionSell
	default:
		return c, false
	}
	return c, true
}
