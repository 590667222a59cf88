package websocket

import (
	"sync"
	"time"
)

// RateLimitConfig bounds how fast a single connection may submit frames.
type RateLimitConfig struct {
	Burst          int
	RefillInterval time.Duration
}

// rateLimiter is a token bucket refilled one token per interval. A
// connection starts with a full bucket so short bursts pass untouched.
type rateLimiter struct {
	mu         sync.Mutex
	tokens     int
	burst      int
	interval   time.Duration
	lastRefill time.Time
}

func newRateLimiter(burst int, interval time.Duration) *rateLimiter {
	if burst <= 0 || interval <= 0 {
		return nil
	}
	return &rateLimiter{
		tokens:     burst,
		burst:      burst,
		interval:   interval,
		lastRefill: time.Now(),
	}
}

func (l *rateLimiter) allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastRefill)
	if refill := int(elapsed / l.interval); refill > 0 {
		l.tokens += refill
		if l.tokens > l.burst {
			l.tokens = l.burst
		}
		l.lastRefill = l.lastRefill.Add(time.Duration(refill) * l.interval)
	}

	if l.tokens == 0 {
		return false
	}
	l.tokens--
	return true
}
