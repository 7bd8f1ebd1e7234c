package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "welth/internal/errors"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{12, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil_error", nil, false},
		{"connection_refused", errors.New("dial tcp: connection refused"), true},
		{"channel_closed", errors.New("Exception (504) Reason: \"channel/connection is not open\""), true},
		{"consumer_channel_closed", errors.New("message channel closed"), true},
		{"eof", errors.New("unexpected EOF"), true},
		{"broken_pipe", errors.New("write: broken pipe"), true},
		{"handler_error", errors.New("account not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      disposition
		wantDelay time.Duration
	}{
		{"success", nil, dispositionAck, 0},
		{"throttled", &ThrottledError{UserID: "u1", RetryAfter: 6 * time.Second}, dispositionDelay, 6 * time.Second},
		{"throttled_wrapped", fmt.Errorf("handle: %w", &ThrottledError{UserID: "u1", RetryAfter: 3 * time.Second}), dispositionDelay, 3 * time.Second},
		{"throttled_short_delay", &ThrottledError{UserID: "u1", RetryAfter: time.Millisecond}, dispositionDelay, minRetryDelay},
		{"invalid_event", ErrInvalidEvent, dispositionDrop, 0},
		{"account_gone", apperrors.ErrAccountNotFound, dispositionDrop, 0},
		{"commit_failed", apperrors.ErrTransactionFailed, dispositionRequeue, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, delay := settle(tt.err)
			if got != tt.want || delay != tt.wantDelay {
				t.Errorf("settle(%v) = %v, %v; want %v, %v", tt.err, got, delay, tt.want, tt.wantDelay)
			}
		})
	}
}

func TestExpiration(t *testing.T) {
	tests := map[time.Duration]string{
		time.Second:                          "1000",
		6*time.Second + 500*time.Microsecond: "6001",
		time.Millisecond:                     "1",
	}
	for d, want := range tests {
		if got := expiration(d); got != want {
			t.Errorf("expiration(%v) = %s, want %s", d, got, want)
		}
	}
}

func TestAMQPClientClosedChannel(t *testing.T) {
	c := &AMQPClient{exchangeName: "welth", queueName: "recurring", delayQueueName: "recurring.delay"}

	err := c.Dispatch(context.Background(), []RecurringEvent{NewRecurringEvent("t1", "u1")})
	if !errors.Is(err, errChannelUnavailable) {
		t.Fatalf("expected unavailable channel, got %v", err)
	}
	if !isConnectionError(err) {
		t.Error("an unavailable channel must trigger a reconnect")
	}
	if err := c.Close(); err != nil {
		t.Errorf("closing an unconnected client: %v", err)
	}
}
