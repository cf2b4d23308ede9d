package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{400, ErrorClassClient},
		{401, ErrorClassClient},
		{403, ErrorClassClient},
		{404, ErrorClassClient},
		{429, ErrorClassRateLimit},
		{500, ErrorClassServer},
		{502, ErrorClassServer},
		{503, ErrorClassServer},
		{200, ""},
		{301, ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			if got := classifyStatus(tt.status); got != tt.want {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "full error",
			err: &APIError{
				Method:     http.MethodGet,
				URL:        "https://api.openalex.org/works/W1",
				StatusCode: 404,
				ErrorClass: ErrorClassClient,
				Body:       `{"error":"Not Found"}`,
			},
			want: `openalex client error (GET https://api.openalex.org/works/W1): status 404: {"error":"Not Found"}`,
		},
		{
			name: "network error without status",
			err: &APIError{
				Method:     http.MethodGet,
				URL:        "https://api.openalex.org/works",
				ErrorClass: ErrorClassNetwork,
				Err:        errors.New("connection refused"),
			},
			want: "openalex network error (GET https://api.openalex.org/works): connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	inner := errors.New("underlying failure")
	err := &APIError{ErrorClass: ErrorClassNetwork, Err: inner}

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestAPIError_Retryable(t *testing.T) {
	tests := []struct {
		class ErrorClass
		want  bool
	}{
		{ErrorClassClient, false},
		{ErrorClassServer, true},
		{ErrorClassRateLimit, true},
		{ErrorClassNetwork, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			err := &APIError{ErrorClass: tt.class}
			if got := err.Retryable(); got != tt.want {
				t.Errorf("Retryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewAPIError_BodyHandling(t *testing.T) {
	t.Run("JSON body compacted", func(t *testing.T) {
		body := []byte("{\n  \"error\": \"Not Found\"\n}")
		err := newAPIError(http.MethodGet, "u", 404, ErrorClassClient, body)
		if err.Body != `{"error":"Not Found"}` {
			t.Errorf("Body = %q, want compacted JSON", err.Body)
		}
	})

	t.Run("raw body truncated", func(t *testing.T) {
		body := []byte(strings.Repeat("x", 600))
		err := newAPIError(http.MethodGet, "u", 500, ErrorClassServer, body)
		if len(err.Body) != maxErrorBodyBytes+3 {
			t.Errorf("Body length = %d, want %d", len(err.Body), maxErrorBodyBytes+3)
		}
		if !strings.HasSuffix(err.Body, "...") {
			t.Error("Truncated body should end with ellipsis")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		err := newAPIError(http.MethodGet, "u", 500, ErrorClassServer, nil)
		if err.Body != "" {
			t.Errorf("Body = %q, want empty", err.Body)
		}
	})
}
