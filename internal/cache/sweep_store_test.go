package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coin-signal-bot/internal/domain"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte), ttl: make(map[string]time.Duration)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	}
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func TestSweepStoreRoundTrip(t *testing.T) {
	fake := newFakeRedis()
	store := NewSweepStore(fake)
	ctx := context.Background()

	if _, err := store.Last(ctx); !errors.Is(err, ErrNoSweep) {
		t.Fatalf("expected ErrNoSweep before first save, got %v", err)
	}

	report := domain.SweepReport{
		CycleID:  "c-1",
		Failures: 1,
		Results: []domain.SymbolResult{
			{Symbol: "BTC-USD", LastClose: 64000.5, Direction: domain.DirectionBuy, Notified: true},
			{Symbol: "ETH-USD", Error: "market data unavailable"},
		},
	}
	if err := store.Save(ctx, report); err != nil {
		t.Fatalf("save: %v", err)
	}
	if fake.ttl[lastSweepKey] != lastSweepTTL {
		t.Fatalf("expected ttl %v, got %v", lastSweepTTL, fake.ttl[lastSweepKey])
	}

	got, err := store.Last(ctx)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if got.CycleID != "c-1" || got.Failures != 1 || len(got.Results) != 2 {
		t.Fatalf("unexpected report: %+v", got)
	}
	if got.Results[0].LastClose != 64000.5 || got.Results[1].Error == "" {
		t.Fatalf("results not preserved: %+v", got.Results)
	}
}

func TestSweepStoreDecodeError(t *testing.T) {
	fake := newFakeRedis()
	fake.data[lastSweepKey] = []byte("{broken")

	if _, err := NewSweepStore(fake).Last(context.Background()); err == nil || errors.Is(err, ErrNoSweep) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
