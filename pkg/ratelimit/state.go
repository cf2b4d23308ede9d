// Package ratelimit implements daily request quota tracking for the
// OpenAlex polite pool. OpenAlex allows 100,000 API calls per day; the
// tracker counts requests in Redis per UTC day and gates new requests
// before the limit is hit.
package ratelimit

import (
	"time"
)

// DefaultDailyQuota is the OpenAlex polite pool daily call limit.
const DefaultDailyQuota = 100000

// quotaKeyPrefix namespaces the per-day Redis counters.
// Full key format: openalex:quota:<YYYY-MM-DD>
const quotaKeyPrefix = "openalex:quota:"

// quotaKeyTTL keeps stale day counters from accumulating in Redis.
const quotaKeyTTL = 48 * time.Hour

// warningFraction of the quota remaining triggers warn-level logging.
const warningFraction = 0.05

// QuotaState represents request usage against the daily quota.
type QuotaState struct {
	// Used is the number of requests issued so far today.
	Used int `json:"used"`

	// Limit is the configured daily quota.
	Limit int `json:"limit"`

	// Day is the UTC day the counter belongs to, as YYYY-MM-DD.
	Day string `json:"day"`
}

// Remaining returns the requests left today. Never negative.
func (s *QuotaState) Remaining() int {
	remaining := s.Limit - s.Used
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Exhausted returns true when no requests remain today.
func (s *QuotaState) Exhausted() bool {
	return s.Used >= s.Limit
}

// NearLimit returns true when less than warningFraction of the quota remains.
func (s *QuotaState) NearLimit() bool {
	if s.Exhausted() {
		return false
	}
	return float64(s.Remaining()) < float64(s.Limit)*warningFraction
}

// TimeUntilReset returns the duration until the next UTC midnight, when the
// quota counter rolls over to a fresh day key.
func (s *QuotaState) TimeUntilReset() time.Duration {
	now := time.Now().UTC()
	midnight := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
	return midnight.Sub(now)
}

// currentDay returns today's UTC date as YYYY-MM-DD.
func currentDay() string {
	return time.Now().UTC().Format("2006-01-02")
}
