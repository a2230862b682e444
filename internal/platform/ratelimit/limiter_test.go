package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimiter_WaitPassesUnderCeiling(t *testing.T) {
	t.Parallel()

	l := New("api-football", 10, time.Second)

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("waits under the burst took %v, want immediate", elapsed)
	}
}

func TestLimiter_WaitBlocksOverCeiling(t *testing.T) {
	t.Parallel()

	l := New("api-football", 2, 200*time.Millisecond)

	for i := 0; i < 2; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}

	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("third wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("third wait returned after %v, want blocked until a slot freed", elapsed)
	}
}

func TestLimiter_WaitHonorsCancellation(t *testing.T) {
	t.Parallel()

	l := New("footystats", 1, time.Hour)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	if err == nil {
		t.Fatalf("expected cancellation error while blocked on quota")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
}

func TestLimiter_SnapshotReportsQuota(t *testing.T) {
	t.Parallel()

	l := New("api-football", 250, time.Minute)
	snap := l.Snapshot()

	if snap.Name != "api-football" {
		t.Fatalf("name = %q, want api-football", snap.Name)
	}
	if snap.MaxCalls != 250 {
		t.Fatalf("max_calls = %d, want 250", snap.MaxCalls)
	}
	if snap.WindowSec != 60 {
		t.Fatalf("window_sec = %v, want 60", snap.WindowSec)
	}
	if snap.Available <= 0 {
		t.Fatalf("available = %v, want positive before any call", snap.Available)
	}
}
