// Package cache provides OpenAlex response caching with a Redis backend.
//
// OpenAlex responses carry no cache-validation headers (no ETag, no
// Expires), so entries are cached for a fixed TTL chosen by the caller.
// Scholarly metadata is slow-moving; the client default of 15 minutes keeps
// repeated pagination runs cheap without serving stale records for long.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.Key{
//		Endpoint:    "/works",
//		QueryParams: url.Values{"filter": []string{"publication_year:2021"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from the API, then:
//		_ = manager.Set(ctx, key, cache.NewEntry(body, 15*time.Minute))
//	}
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - openalex_cache_hits_total{layer="redis"} - Cache hits
//   - openalex_cache_misses_total - Cache misses
//   - openalex_cache_size_bytes{layer="redis"} - Cache size
//   - openalex_cache_errors_total{operation} - Cache operation errors
package cache
