package domain

import (
	"fmt"
	"time"
)

// Candle represents a single OHLCV sample for one granularity bucket.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is the ordered candle history of one symbol, oldest first.
type Series struct {
	Symbol      string        `json:"symbol"`
	Granularity time.Duration `json:"granularity"`
	Candles     []Candle      `json:"candles"`
}

func (s Series) Len() int {
	return len(s.Candles)
}

// Last returns the most recent candle. The series must not be empty.
func (s Series) Last() Candle {
	return s.Candles[len(s.Candles)-1]
}

func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

func (s Series) Volumes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Volume
	}
	return out
}

// Validate checks that timestamps are strictly increasing and no candle has
// its low above its high.
func (s Series) Validate() error {
	for i, c := range s.Candles {
		if c.Low > c.High {
			return fmt.Errorf("%s: candle %d has low %v above high %v", s.Symbol, i, c.Low, c.High)
		}
	}
	for i := 1; i < len(s.Candles); i++ {
		if !s.Candles[i].Time.After(s.Candles[i-1].Time) {
			return fmt.Errorf("%s: candle %d at %s is not after %s",
				s.Symbol, i, s.Candles[i].Time.UTC().Format(time.RFC3339), s.Candles[i-1].Time.UTC().Format(time.RFC3339))
		}
	}
	return nil
}
