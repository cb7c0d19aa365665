package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coin-signal-bot/internal/domain"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	lastSweepKey = "sweep:last"
	lastSweepTTL = 24 * time.Hour
)

// ErrNoSweep is returned by Last before the first sweep has been stored.
var ErrNoSweep = errors.New("no sweep recorded yet")

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// SweepStore keeps the report of the most recent sweep for the status API.
type SweepStore struct {
	redis RedisClient
}

func NewSweepStore(client RedisClient) *SweepStore {
	return &SweepStore{redis: client}
}

func (s *SweepStore) Save(ctx context.Context, report domain.SweepReport) error {
	data, err := sonic.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode sweep report: %w", err)
	}
	if err := s.redis.Set(ctx, lastSweepKey, data, lastSweepTTL).Err(); err != nil {
		return fmt.Errorf("store sweep report: %w", err)
	}
	return nil
}

func (s *SweepStore) Last(ctx context.Context) (domain.SweepReport, error) {
	var report domain.SweepReport

	data, err := s.redis.Get(ctx, lastSweepKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return report, ErrNoSweep
	}
	if err != nil {
		return report, fmt.Errorf("load sweep report: %w", err)
	}
	if err := sonic.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("decode sweep report: %w", err)
	}
	return report, nil
}
