package domain

import (
	"testing"
	"time"
)

func TestSeriesValidate(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ok := Series{Symbol: "BTC-USD", Candles: []Candle{
		{Time: base, Close: 1},
		{Time: base.Add(time.Minute), Close: 2},
	}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := Series{Symbol: "BTC-USD", Candles: []Candle{
		{Time: base, Close: 1},
		{Time: base, Close: 2},
	}}
	if err := dup.Validate(); err == nil {
		t.Fatal("expected error for repeated timestamp")
	}

	inverted := Series{Symbol: "BTC-USD", Candles: []Candle{
		{Time: base, Low: 102, High: 98, Close: 100},
	}}
	if err := inverted.Validate(); err == nil {
		t.Fatal("expected error for low above high")
	}
}

func TestSeriesAccessors(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Series{Candles: []Candle{
		{Time: base, Close: 10, Volume: 1},
		{Time: base.Add(time.Minute), Close: 11, Volume: 2},
	}}
	if s.Len() != 2 {
		t.Fatalf("expected len 2, got %d", s.Len())
	}
	if s.Last().Close != 11 {
		t.Fatalf("unexpected last candle: %+v", s.Last())
	}
	closes := s.Closes()
	if closes[0] != 10 || closes[1] != 11 {
		t.Fatalf("unexpected closes: %v", closes)
	}
	vols := s.Volumes()
	if vols[0] != 1 || vols[1] != 2 {
		t.Fatalf("unexpected volumes: %v", vols)
	}
}

func TestDefaultSymbols(t *testing.T) {
	if len(DefaultSymbols) != 20 {
		t.Fatalf("expected 20 tracked symbols, got %d", len(DefaultSymbols))
	}
	if DefaultSymbols[0] != "BTC-USD" {
		t.Fatalf("unexpected first symbol %s", DefaultSymbols[0])
	}
}
