package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_StopsAfterMaxAttempts(t *testing.T) {
	calls := 0
	notified := 0
	err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		calls++
		return errors.New("still failing")
	}, func(err error, wait time.Duration) { notified++ })
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if notified != 2 {
		t.Errorf("notified = %d, want 2", notified)
	}
}

func TestDo_ClientErrorIsPermanent(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int
	}{
		{"bad request", http.StatusBadRequest, 1},
		{"unauthorized", http.StatusUnauthorized, 1},
		{"rate limited", http.StatusTooManyRequests, 3},
		{"server error", http.StatusBadGateway, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
				calls++
				return &StatusError{Service: "test", StatusCode: tt.status}
			}, nil)

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected StatusError, got %v", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, Policy{MaxAttempts: 5, InitialInterval: time.Second}, func(ctx context.Context) error {
		calls++
		return errors.New("fail")
	}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls > 1 {
		t.Errorf("calls = %d, want at most 1", calls)
	}
}
