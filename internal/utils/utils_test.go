package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitFor(t *testing.T) {
	original := sleep
	t.Cleanup(func() { sleep = original })

	var slept time.Duration
	sleep = func(d time.Duration) { slept = d }

	if err := WaitFor(context.Background(), 3*time.Second); err != nil {
		t.Fatalf("WaitFor: %v", err)
	}
	if slept != 3*time.Second {
		t.Fatalf("expected 3s sleep, got %v", slept)
	}

	slept = 0
	if err := WaitFor(context.Background(), 0); err != nil || slept != 0 {
		t.Fatalf("expected zero duration to return immediately, got %v after %v", err, slept)
	}

	started := make(chan struct{})
	block := make(chan struct{})
	sleep = func(time.Duration) {
		close(started)
		<-block
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := WaitFor(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	<-started
	close(block)
}
