package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	limiter := New(time.Second)
	if limiter == nil {
		t.Fatal("New() returned nil")
	}
	if limiter.keys == nil {
		t.Fatal("New() returned limiter with nil keys map")
	}
	if limiter.minInterval != time.Second {
		t.Errorf("New() minInterval = %v, want %v", limiter.minInterval, time.Second)
	}
}

func TestAllow_FirstEvent(t *testing.T) {
	limiter := New(100 * time.Millisecond)

	if !limiter.Allow("rater-1") {
		t.Error("Allow() should return true for first event for a key")
	}
}

func TestAllow_SecondEventTooSoon(t *testing.T) {
	limiter := New(100 * time.Millisecond)

	limiter.Allow("rater-1")
	if limiter.Allow("rater-1") {
		t.Error("Allow() should return false for second event before minInterval")
	}
}

func TestAllow_SecondEventAfterInterval(t *testing.T) {
	limiter := New(50 * time.Millisecond)

	limiter.Allow("rater-1")
	time.Sleep(60 * time.Millisecond)

	if !limiter.Allow("rater-1") {
		t.Error("Allow() should return true after minInterval has passed")
	}
}

func TestAllow_DifferentKeys(t *testing.T) {
	limiter := New(100 * time.Millisecond)

	limiter.Allow("rater-1")
	if !limiter.Allow("rater-2") {
		t.Error("Allow() should return true for a different key")
	}
}

func TestAllow_FailureDoesNotUpdateTimestamp(t *testing.T) {
	limiter := New(50 * time.Millisecond)

	limiter.Allow("rater-1")
	time.Sleep(30 * time.Millisecond)
	limiter.Allow("rater-1") // Should fail but not update timestamp

	time.Sleep(30 * time.Millisecond) // 60ms total from first Allow

	if !limiter.Allow("rater-1") {
		t.Error("Allow() should return true after original minInterval has passed")
	}
}

func TestWait_SecondEventWaits(t *testing.T) {
	limiter := New(50 * time.Millisecond)

	limiter.Wait("rater-1")
	start := time.Now()
	limiter.Wait("rater-1")
	elapsed := time.Since(start)

	// Should wait close to 50ms (allow some tolerance)
	if elapsed < 40*time.Millisecond {
		t.Errorf("Wait() should wait for minInterval, elapsed: %v", elapsed)
	}
}

func TestReset(t *testing.T) {
	limiter := New(100 * time.Millisecond)

	limiter.Allow("rater-1")
	if limiter.Allow("rater-1") {
		t.Fatal("Second Allow() should return false before reset")
	}

	limiter.Reset("rater-1")

	if !limiter.Allow("rater-1") {
		t.Error("Allow() should return true after Reset()")
	}
}

func TestReset_UnknownKey(t *testing.T) {
	limiter := New(time.Second)

	// Should not panic
	limiter.Reset("nobody")

	if !limiter.Allow("nobody") {
		t.Error("Allow() should return true for key after Reset()")
	}
}

func TestResetAll(t *testing.T) {
	limiter := New(100 * time.Millisecond)

	limiter.Allow("rater-1")
	limiter.Allow("rater-2")

	limiter.ResetAll()

	if !limiter.Allow("rater-1") {
		t.Error("Allow() should return true after ResetAll()")
	}
	if !limiter.Allow("rater-2") {
		t.Error("Allow() should return true after ResetAll()")
	}
}

func TestConcurrentAccess(t *testing.T) {
	limiter := New(10 * time.Millisecond)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				limiter.Allow("rater-shared")
				limiter.Reset("rater-shared")
			}
		}()
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			limiter.Wait("rater-" + string(rune('a'+idx)))
		}(i)
	}

	wg.Wait()
}
