package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key uniquely identifies a cached OpenAlex response.
type Key struct {
	// Endpoint is the API path (e.g. "/works" or "/works/W2741809807").
	Endpoint string

	// QueryParams are the request's query parameters.
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: openalex:endpoint:query1=val1:query2=val2
//
// Example:
//
//	openalex:works:filter=publication_year:2021:page=1:per_page=10
func (k Key) String() string {
	parts := []string{"openalex"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Query params sorted for determinism
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.QueryParams.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
