package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a tokens-per-minute budget for AI provider calls.
// The window resets a minute after the first spend inside it.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int
	windowStart time.Time
}

// NewTokenLimiter creates a limiter with the given per-minute budget.
// A non-positive budget disables limiting.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{maxPerMin: maxPerMinute}
}

// GetRemaining returns the number of tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetIfExpired()
	return l.maxPerMin - l.used
}

// Wait records a spend of n tokens, blocking until the window has room for it
// or the context is canceled.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	if l.maxPerMin <= 0 {
		return nil
	}

	for {
		l.mu.Lock()
		l.resetIfExpired()
		if l.used+n <= l.maxPerMin || l.used == 0 {
			if l.used == 0 {
				l.windowStart = time.Now()
			}
			l.used += n
			l.mu.Unlock()
			return nil
		}
		wakeAt := l.windowStart.Add(time.Minute)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(wakeAt)):
		}
	}
}

func (l *TokenLimiter) resetIfExpired() {
	if !l.windowStart.IsZero() && time.Since(l.windowStart) >= time.Minute {
		l.used = 0
		l.windowStart = time.Time{}
	}
}
