package amqp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second}, // capped
		{10, 30 * time.Second},
		{63, 30 * time.Second}, // shift overflow still capped
	}

	for _, tt := range tests {
		if got := exponentialBackoff(tt.attempt); got != tt.want {
			t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"connection closed", errors.New("Exception (504) Reason: \"channel/connection is not open\", connection closed"), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"validation error", errors.New("invalid routing key"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.want {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCircuitBreakerOpensAfterMaxFailures(t *testing.T) {
	c := &Client{}

	for i := 0; i < maxFailures-1; i++ {
		c.recordFailure()
		if c.isCircuitOpen() {
			t.Fatalf("circuit open after %d failures, threshold is %d", i+1, maxFailures)
		}
	}

	c.recordFailure()
	if !c.isCircuitOpen() {
		t.Fatal("circuit should be open after reaching max failures")
	}
}

func TestCircuitBreakerClosesOnSuccess(t *testing.T) {
	c := &Client{}

	for i := 0; i < maxFailures; i++ {
		c.recordFailure()
	}
	if !c.isCircuitOpen() {
		t.Fatal("circuit should be open")
	}

	c.recordSuccess()
	if c.isCircuitOpen() {
		t.Fatal("circuit should close after a success")
	}
	if c.failureCount != 0 {
		t.Fatalf("failure count should reset, got %d", c.failureCount)
	}
}

func TestCircuitBreakerHalfOpensAfterTimeout(t *testing.T) {
	c := &Client{}
	for i := 0; i < maxFailures; i++ {
		c.recordFailure()
	}
	// Pretend the last failure happened long ago.
	c.lastFailureNano = time.Now().Add(-openTimeout - time.Second).UnixNano()

	if c.isCircuitOpen() {
		t.Fatal("circuit should allow a probe after the open timeout")
	}
	if c.state != StateHalfOpen {
		t.Fatalf("state = %d, want %d (half-open)", c.state, StateHalfOpen)
	}
}

func TestCircuitBreakerConcurrentAccess(t *testing.T) {
	c := &Client{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if n%2 == 0 {
					c.recordFailure()
				} else {
					c.isCircuitOpen()
				}
			}
		}(i)
	}
	wg.Wait()

	c.recordSuccess()
	if c.isCircuitOpen() {
		t.Fatal("circuit should close after a success")
	}
}

func TestPublishFailsFastWhenCircuitOpen(t *testing.T) {
	c := &Client{state: StateOpen, lastFailureNano: time.Now().UnixNano()}

	err := c.PublishDocumentUpdated(context.Background(), "budgetData", 7)
	if err == nil {
		t.Fatal("expected error while circuit is open")
	}
}

func TestPublishRespectsCancelledContext(t *testing.T) {
	c := &Client{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.PublishDocumentUpdated(ctx, "budgetData", 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestDocumentUpdatedMessageRoundTrip(t *testing.T) {
	msg := NewDocumentUpdatedMessage("budgetData", 42)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := DocumentUpdatedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Key != "budgetData" || got.Revision != 42 {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("timestamp should survive the round trip")
	}
}

func TestDocumentUpdatedMessageFromJSONInvalid(t *testing.T) {
	if _, err := DocumentUpdatedMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
