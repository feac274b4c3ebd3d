package gate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// ============================================================================
// Construction Tests
// ============================================================================

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		period   time.Duration
		capacity int
		wantErr  bool
	}{
		{"valid", time.Second, 5, false},
		{"zero capacity", time.Second, 0, true},
		{"negative capacity", time.Second, -1, true},
		{"zero period", 0, 5, true},
		{"negative period", -time.Second, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.period, tt.capacity)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected construction to fail")
				}
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("Expected *ConfigError, got %T", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected construction to succeed, got %v", err)
			}
			if g.Capacity() != tt.capacity {
				t.Errorf("Expected capacity %d, got %d", tt.capacity, g.Capacity())
			}
			if g.Period() != tt.period {
				t.Errorf("Expected period %v, got %v", tt.period, g.Period())
			}
		})
	}
}

// ============================================================================
// Window Behavior Tests
// ============================================================================

func TestAcquire_CapacityBoundWithinWindow(t *testing.T) {
	g, err := New(300*time.Millisecond, 3)
	if err != nil {
		t.Fatal(err)
	}

	// First 3 admissions are immediate
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := g.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Expected immediate admissions, took %v", elapsed)
	}

	// The 4th must block until the window elapses
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("Blocked Acquire failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 250*time.Millisecond {
		t.Errorf("Expected 4th admission to wait for window end, took only %v", elapsed)
	}
}

func TestAcquire_WindowReset(t *testing.T) {
	g, err := New(100*time.Millisecond, 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Let the window fully elapse
	time.Sleep(150 * time.Millisecond)

	start := time.Now()
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Expected immediate admission after window reset, took %v", elapsed)
	}

	// The fresh window now counts exactly this one admission
	if remaining := g.Remaining(); remaining != 0 {
		t.Errorf("Expected 0 remaining in fresh window of capacity 1, got %d", remaining)
	}
}

func TestAcquire_BoundaryBurst(t *testing.T) {
	// Fixed-window behavior: admissions on both sides of a window boundary
	// may be less than one period apart. This is expected, not a bug.
	g, err := New(200*time.Millisecond, 2)
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Late in the window: second slot still free, admitted immediately
	time.Sleep(170 * time.Millisecond)
	start := time.Now()
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Expected immediate admission late in window, took %v", elapsed)
	}

	// Just past the boundary: window resets, two more immediate admissions
	time.Sleep(50 * time.Millisecond)
	start = time.Now()
	for i := 0; i < 2; i++ {
		if err := g.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Expected immediate admissions after boundary, took %v", elapsed)
	}
}

func TestAcquire_Scenario(t *testing.T) {
	// capacity=2, period=100ms. Two calls at t=0 return immediately. A third
	// at t=10ms blocks until t=100ms measured from the window start. A
	// fourth at t=150ms returns immediately.
	g, err := New(100*time.Millisecond, 2)
	if err != nil {
		t.Fatal(err)
	}

	windowStart := time.Now()
	for i := 0; i < 2; i++ {
		if err := g.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(windowStart); elapsed > 50*time.Millisecond {
		t.Errorf("Expected both initial admissions immediately, took %v", elapsed)
	}

	time.Sleep(10 * time.Millisecond)
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(windowStart); elapsed < 90*time.Millisecond {
		t.Errorf("Expected third admission no earlier than window end, got %v after window start", elapsed)
	}

	time.Sleep(50 * time.Millisecond)
	start := time.Now()
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Expected fourth admission immediately in fresh window, took %v", elapsed)
	}
}

// ============================================================================
// Cancellation Tests
// ============================================================================

func TestAcquire_CancelledWaiterLeavesNoResidue(t *testing.T) {
	g, err := New(300*time.Millisecond, 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Acquire(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("Expected cancelled waiter to receive an error")
		}
		var cErr *CancelledError
		if !errors.As(err, &cErr) {
			t.Errorf("Expected *CancelledError, got %T", err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected error chain to contain context.Canceled, got %v", err)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Cancelled waiter did not return promptly")
	}

	// The abandoned slot is still claimable once the window turns over
	time.Sleep(300 * time.Millisecond)
	start := time.Now()
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Expected immediate admission after cancellation, took %v", elapsed)
	}
	if remaining := g.Remaining(); remaining != 0 {
		t.Errorf("Expected the window to count exactly one admission, remaining=%d", remaining)
	}
}

func TestAcquire_DeadlineExceededWhileWaiting(t *testing.T) {
	g, err := New(time.Second, 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = g.Acquire(ctx)
	if err == nil {
		t.Fatal("Expected deadline to interrupt the wait")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected error chain to contain context.DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("Expected prompt return on deadline, took %v", elapsed)
	}
}

func TestAcquire_AlreadyCancelledContext(t *testing.T) {
	g, err := New(time.Second, 1)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Acquire(ctx); err == nil {
		t.Fatal("Expected Acquire with cancelled context to fail")
	}
	if remaining := g.Remaining(); remaining != 1 {
		t.Errorf("Expected no admission consumed, remaining=%d", remaining)
	}
}

// ============================================================================
// Concurrency Tests
// ============================================================================

func TestAcquire_ConcurrentCallers(t *testing.T) {
	const capacity = 50
	g, err := New(time.Second, capacity)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < capacity; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// Every admission counted exactly once
	if remaining := g.Remaining(); remaining != 0 {
		t.Errorf("Expected 0 remaining after %d concurrent admissions, got %d", capacity, remaining)
	}
}

func TestAcquire_ConcurrentWaitersAllAdmitted(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping multi-window timing test in short mode")
	}

	g, err := New(100*time.Millisecond, 2)
	if err != nil {
		t.Fatal(err)
	}

	const callers = 6
	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
			}
		}()
	}
	wg.Wait()

	// 6 callers at 2 per 100ms need at least 2 full extra windows
	if elapsed := time.Since(start); elapsed < 180*time.Millisecond {
		t.Errorf("Expected 6 admissions to span at least 2 extra windows, took %v", elapsed)
	}
}

func TestRemaining_FreshWindowReportsFullCapacity(t *testing.T) {
	g, err := New(80*time.Millisecond, 4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		if err := g.Acquire(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if remaining := g.Remaining(); remaining != 0 {
		t.Errorf("Expected 0 remaining, got %d", remaining)
	}

	time.Sleep(120 * time.Millisecond)
	if remaining := g.Remaining(); remaining != 4 {
		t.Errorf("Expected full capacity after window elapsed, got %d", remaining)
	}
}
