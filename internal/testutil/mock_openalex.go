// Package testutil provides testing utilities for the OpenAlex client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// MockAPI is a configurable mock OpenAlex server for testing.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	PageRequestCounts map[string]int // path -> page requests seen
	LastQuery         url.Values
	LastHeader        http.Header
}

// NewMockAPI creates a new mock OpenAlex server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers:          make(map[string]func(w http.ResponseWriter, r *http.Request)),
		PageRequestCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.PageRequestCounts[r.URL.Path]++
		mock.LastQuery = r.URL.Query()
		mock.LastHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PageRequestCounts = make(map[string]int)
	m.LastQuery = nil
	m.LastHeader = nil
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastQuery returns the query parameters of the most recent request.
func (m *MockAPI) GetLastQuery() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

// GetLastHeader returns the headers of the most recent request.
func (m *MockAPI) GetLastHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastHeader
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetJSONResponse configures a fixed JSON response for a path.
func (m *MockAPI) SetJSONResponse(path string, statusCode int, body string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if body != "" {
			w.Write([]byte(body))
		}
	})
}

// SetPagedList serves a listing endpoint backed by a fixed set of JSON
// records, honoring the page and per_page query parameters and wrapping
// each page in the OpenAlex envelope. When failPage is > 0, requests for
// that page return 404.
func (m *MockAPI) SetPagedList(path string, records []string, failPage int) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		perPage := queryInt(r, "per_page", 25)

		w.Header().Set("Content-Type", "application/json")

		if failPage > 0 && page == failPage {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "Not Found", "message": "page unavailable"}`))
			return
		}

		start := (page - 1) * perPage
		end := start + perPage
		if start > len(records) {
			start = len(records)
		}
		if end > len(records) {
			end = len(records)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(ListEnvelope(len(records), page, perPage, records[start:end]...)))
	})
}

// ListEnvelope builds an OpenAlex listing response body.
func ListEnvelope(count, page, perPage int, results ...string) string {
	return fmt.Sprintf(`{"meta": {"count": %d, "page": %d, "per_page": %d}, "results": [%s]}`,
		count, page, perPage, strings.Join(results, ","))
}

// WorkRecord builds a minimal work record JSON object.
func WorkRecord(id, title string) string {
	return fmt.Sprintf(`{"id": %q, "title": %q, "type": "article"}`, id, title)
}

// defaultHandler provides a default OpenAlex-like response.
func (m *MockAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"id": "https://openalex.org/W0", "title": "default"}`))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
