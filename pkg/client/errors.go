package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrQuotaExceeded is returned when the daily request quota is exhausted.
	ErrQuotaExceeded = errors.New("request blocked: daily quota exhausted")
)

// ErrorClass represents a classification of transport errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors (except 429).
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 rate limit errors.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// maxErrorBodyBytes caps how much raw response text an APIError carries.
const maxErrorBodyBytes = 500

// APIError is the domain error for failed OpenAlex requests. It carries the
// HTTP method, URL, status code, and the response body (parsed JSON error
// payload, or raw text truncated to maxErrorBodyBytes) for diagnostics.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	ErrorClass ErrorClass
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("openalex %s error (%s %s)", e.ErrorClass, e.Method, e.URL)
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure class warrants another attempt.
// Client errors are never retried; they cannot succeed without a changed
// request.
func (e *APIError) Retryable() bool {
	switch e.ErrorClass {
	case ErrorClassServer, ErrorClassRateLimit, ErrorClassNetwork:
		return true
	default:
		return false
	}
}

// newAPIError builds an APIError from an error response body, preferring the
// parsed JSON error payload and falling back to truncated raw text.
func newAPIError(method, url string, status int, class ErrorClass, body []byte) *APIError {
	detail := ""

	var parsed map[string]any
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		if compact, err := json.Marshal(parsed); err == nil {
			detail = string(compact)
		}
	}
	if detail == "" {
		detail = string(body)
		if len(detail) > maxErrorBodyBytes {
			detail = detail[:maxErrorBodyBytes] + "..."
		}
	}

	return &APIError{
		Method:     method,
		URL:        url,
		StatusCode: status,
		ErrorClass: class,
		Body:       detail,
	}
}

// classifyStatus categorizes an HTTP status for observability and retry
// decisions.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}
