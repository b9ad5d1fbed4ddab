package kigo

import (
	"sync"
	"time"
)

// LoginLimiter rate-limits admin login attempts per IP address. Only
// failed attempts are recorded, so a successful login never counts toward
// the limit.
type LoginLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
	max      int
	window   time.Duration
}

// NewLoginLimiter creates a LoginLimiter allowing max failures per window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		failures: make(map[string][]time.Time),
		max:      max,
		window:   window,
	}
	go l.sweep()
	return l
}

// sweep periodically drops expired entries so idle IPs don't accumulate.
func (l *LoginLimiter) sweep() {
	ticker := time.NewTicker(l.window)
	for range ticker.C {
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for ip, hits := range l.failures {
			kept := prune(hits, cutoff)
			if len(kept) == 0 {
				delete(l.failures, ip)
			} else {
				l.failures[ip] = kept
			}
		}
		l.mu.Unlock()
	}
}

// Check reports whether the IP is still under the failure limit. It does
// not record anything; call Record on a failed attempt.
func (l *LoginLimiter) Check(ip string) bool {
	cutoff := time.Now().Add(-l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := prune(l.failures[ip], cutoff)
	l.failures[ip] = kept
	return len(kept) < l.max
}

// Record registers a failed login attempt for the given IP.
func (l *LoginLimiter) Record(ip string) {
	l.mu.Lock()
	l.failures[ip] = append(l.failures[ip], time.Now())
	l.mu.Unlock()
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
