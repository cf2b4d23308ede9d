// Package metrics provides the centralized Prometheus metrics reference for
// the OpenAlex client. All metrics are defined in their respective packages
// (client, cache, ratelimit) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the OpenAlex client.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Quota Metrics (pkg/ratelimit):
//   - openalex_quota_used (Gauge): Requests issued against the current daily quota
//   - openalex_quota_blocks_total (Counter): Requests blocked due to exhausted quota
//
// Cache Metrics (pkg/cache):
//   - openalex_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - openalex_cache_misses_total (Counter): Cache misses
//   - openalex_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - openalex_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - openalex_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - openalex_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - openalex_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - openalex_retries_total{error_class} (Counter): Retry attempts by error class
//   - openalex_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - openalex_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(openalex_cache_hits_total[5m])) /
//   (sum(rate(openalex_cache_hits_total[5m])) + sum(rate(openalex_cache_misses_total[5m])))
//
//   # Daily Quota Headroom
//   100000 - openalex_quota_used
//
//   # Request Error Rate
//   rate(openalex_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(openalex_request_duration_seconds_bucket[5m]))
