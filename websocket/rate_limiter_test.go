package websocket

import (
	"testing"
	"time"
)

func TestRateLimiterBurstThenDeny(t *testing.T) {
	l := newRateLimiter(2, 50*time.Millisecond)

	if !l.allow() || !l.allow() {
		t.Fatal("burst tokens were not available")
	}
	if l.allow() {
		t.Error("allow() succeeded past the burst")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	l := newRateLimiter(1, 20*time.Millisecond)

	if !l.allow() {
		t.Fatal("initial token missing")
	}
	if l.allow() {
		t.Fatal("allow() succeeded with empty bucket")
	}

	time.Sleep(30 * time.Millisecond)
	if !l.allow() {
		t.Error("bucket did not refill after the interval")
	}
}

func TestRateLimiterNeverExceedsBurst(t *testing.T) {
	l := newRateLimiter(2, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	allowed := 0
	for i := 0; i < 10; i++ {
		if l.allow() {
			allowed++
		}
	}
	if allowed != 2 {
		t.Errorf("allowed %d frames after long idle, want burst of 2", allowed)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	if l := newRateLimiter(0, time.Second); l != nil {
		t.Error("newRateLimiter(0, ...) should disable limiting")
	}
}
