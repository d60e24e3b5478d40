// Package ratelimit implements a fixed-window request counter keyed by a
// client identifier (typically an IP address).
//
// Fixed-window means counters reset at discrete boundaries, so a burst
// straddling a boundary can admit up to twice the configured maximum in a
// short span. That is accepted, documented behavior of this algorithm, not a
// bug. Records are replaced when their window expires but never swept, so
// the map grows with the number of distinct identifiers seen over the
// process lifetime.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultWindow      = time.Minute
	DefaultMaxRequests = 100
)

type record struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window counter shared by all requests. Construct one in
// main and inject it; all methods are safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	records map[string]*record

	now func() time.Time
}

// New builds a Limiter. Non-positive arguments select the defaults
// (60s window, 100 requests).
func New(window time.Duration, maxRequests int) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	return &Limiter{
		window:  window,
		max:     maxRequests,
		records: make(map[string]*record),
		now:     time.Now,
	}
}

// Allow admits or rejects a request from the given identifier. The
// check-then-increment sequence is a single critical section so two
// concurrent callers cannot both slip past the limit.
func (l *Limiter) Allow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	r, ok := l.records[id]
	if !ok || now.After(r.resetAt) {
		l.records[id] = &record{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	if r.count < l.max {
		r.count++
		return true
	}
	return false
}

// Remaining returns how many requests the identifier may still make in its
// active window, or the full quota when no window is active.
func (l *Limiter) Remaining(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.records[id]
	if !ok || l.now().After(r.resetAt) {
		return l.max
	}
	if remaining := l.max - r.count; remaining > 0 {
		return remaining
	}
	return 0
}

// ResetTime returns when the identifier's active window ends, or now+window
// when no window is active.
func (l *Limiter) ResetTime(id string) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.records[id]
	if !ok || l.now().After(r.resetAt) {
		return l.now().Add(l.window)
	}
	return r.resetAt
}

// Clear drops the record for one identifier.
func (l *Limiter) Clear(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, id)
}

// ClearAll drops every record.
func (l *Limiter) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = make(map[string]*record)
}
