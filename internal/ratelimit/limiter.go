// Package ratelimit provides a minimum-interval limiter keyed by string,
// used to slow repeated rating submissions from the same rater identity.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter enforces a minimum interval between events per key
type Limiter struct {
	mu          sync.Mutex
	keys        map[string]time.Time
	minInterval time.Duration
}

// New creates a limiter with the given minimum interval
func New(minInterval time.Duration) *Limiter {
	return &Limiter{
		keys:        make(map[string]time.Time),
		minInterval: minInterval,
	}
}

// Allow reports whether an event for key may proceed now, and records it
// if so
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if last, ok := l.keys[key]; ok && now.Sub(last) < l.minInterval {
		return false
	}
	l.keys[key] = now
	return true
}

// Wait blocks until an event for key may proceed, then records it
func (l *Limiter) Wait(key string) {
	for {
		l.mu.Lock()
		now := time.Now()
		last, ok := l.keys[key]
		if !ok || now.Sub(last) >= l.minInterval {
			l.keys[key] = now
			l.mu.Unlock()
			return
		}
		remaining := l.minInterval - now.Sub(last)
		l.mu.Unlock()
		time.Sleep(remaining)
	}
}

// Reset forgets the last event for key
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.keys, key)
}

// ResetAll forgets all recorded events
func (l *Limiter) ResetAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = make(map[string]time.Time)
}
