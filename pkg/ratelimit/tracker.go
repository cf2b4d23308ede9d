package ratelimit

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for quota tracking.
var (
	quotaUsed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "openalex_quota_used",
		Help: "Number of requests issued against the current daily quota",
	})

	quotaBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "openalex_quota_blocks_total",
		Help: "Total number of requests blocked due to exhausted daily quota",
	})
)

// Tracker counts requests against the daily quota and gates new requests.
// The counter lives in Redis keyed by UTC day, so multiple processes
// sharing one mailto identity also share one budget.
type Tracker struct {
	redis  *redis.Client
	limit  int
	logger zerolog.Logger
}

// NewTracker creates a new quota tracker.
func NewTracker(redisClient *redis.Client, limit int, logger zerolog.Logger) *Tracker {
	if limit <= 0 {
		limit = DefaultDailyQuota
	}
	return &Tracker{
		redis:  redisClient,
		limit:  limit,
		logger: logger,
	}
}

// State retrieves today's quota usage from Redis. A missing counter means
// no requests have been issued today.
func (t *Tracker) State(ctx context.Context) (*QuotaState, error) {
	day := currentDay()

	used, err := t.redis.Get(ctx, quotaKeyPrefix+day).Int()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get quota counter: %w", err)
	}

	return &QuotaState{
		Used:  used,
		Limit: t.limit,
		Day:   day,
	}, nil
}

// Acquire atomically claims one request slot from today's quota.
// Returns false when the quota is exhausted; the claimed slot is released
// again so the counter stays an accurate request count.
func (t *Tracker) Acquire(ctx context.Context) (bool, error) {
	day := currentDay()
	key := quotaKeyPrefix + day

	used, err := t.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("increment quota counter: %w", err)
	}
	if used == 1 {
		// Fresh day counter; expiry well past the UTC rollover
		if err := t.redis.Expire(ctx, key, quotaKeyTTL).Err(); err != nil {
			t.logger.Warn().Err(err).Msg("Failed to set quota counter expiry")
		}
	}

	if used > int64(t.limit) {
		if err := t.redis.Decr(ctx, key).Err(); err != nil {
			t.logger.Warn().Err(err).Msg("Failed to release quota slot")
		}

		state := &QuotaState{Used: t.limit, Limit: t.limit, Day: day}
		t.logger.Error().
			Int("limit", t.limit).
			Dur("reset_in", state.TimeUntilReset()).
			Msg("Daily quota exhausted - blocking request")

		quotaBlocksTotal.Inc()
		return false, nil
	}

	quotaUsed.Set(float64(used))

	state := &QuotaState{Used: int(used), Limit: t.limit, Day: day}
	if state.NearLimit() {
		t.logger.Warn().
			Int("used", state.Used).
			Int("remaining", state.Remaining()).
			Msg("Daily quota nearly exhausted")
	}

	return true, nil
}
