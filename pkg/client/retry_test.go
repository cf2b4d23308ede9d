package client

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        10 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryWithBackoff_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), func() error {
		calls++
		if calls < 3 {
			return &APIError{ErrorClass: ErrorClassServer, StatusCode: 500}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	wantErr := &APIError{ErrorClass: ErrorClassClient, StatusCode: 404}

	err := retryWithBackoff(context.Background(), fastRetryConfig(3), func() error {
		calls++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("Expected the client error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call for a non-retryable error, got %d", calls)
	}
}

func TestRetryWithBackoff_PlainErrorNotRetried(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), func() error {
		calls++
		return errors.New("not an APIError")
	})

	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestRetryWithBackoff_Exhaustion(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), func() error {
		calls++
		return &APIError{ErrorClass: ErrorClassRateLimit, StatusCode: 429}
	})

	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Expected ErrRetryExhausted, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("Exhaustion error should still unwrap to the APIError")
	}
	if apiErr.StatusCode != 429 {
		t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
	}
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	config := RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    time.Minute, // long backoff so cancellation wins
		MaxBackoff:        time.Minute,
		BackoffMultiplier: 2.0,
	}

	done := make(chan error, 1)
	go func() {
		done <- retryWithBackoff(ctx, config, func() error {
			return &APIError{ErrorClass: ErrorClassServer, StatusCode: 503}
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrContextCancelled) {
			t.Errorf("Expected ErrContextCancelled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("retryWithBackoff did not return after context cancellation")
	}
}
