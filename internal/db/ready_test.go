package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWaitForReady_RetriesUntilUp(t *testing.T) {
	calls := 0
	err := WaitForReady(context.Background(), "redis", time.Second, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWaitForReady_TimeoutKeepsLastError(t *testing.T) {
	refused := errors.New("connection refused")
	err := WaitForReady(context.Background(), "postgres", 120*time.Millisecond, func(context.Context) error {
		return refused
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline in %v", err)
	}
	if !errors.Is(err, refused) {
		t.Errorf("expected last ping error in %v", err)
	}
	if !strings.HasPrefix(err.Error(), "postgres not ready") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWaitForReady_CanceledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WaitForReady(ctx, "redis", time.Second, func(context.Context) error {
		return nil
	})
	// The first probe races the canceled context; either outcome is valid
	// as long as a failure reports cancellation.
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
