package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter tracks the rate limiter and last-seen time of one client
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter implements per-client rate limiting
type Limiter struct {
	limiters     map[string]*clientLimiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		limiters:     make(map[string]*clientLimiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Allow checks if a request is allowed without waiting
func (l *Limiter) Allow(client string) bool {
	return l.getLimiter(client).Allow()
}

// getLimiter returns the rate limiter for a client, creating it on first use
func (l *Limiter) getLimiter(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.limiters[client]
	if !exists {
		entry = &clientLimiter{
			limiter: rate.NewLimiter(l.defaultRate, l.defaultBurst),
		}
		l.limiters[client] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter
}

// Cleanup forgets clients not seen for staleAfter and returns how many were removed
func (l *Limiter) Cleanup(staleAfter time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	removed := 0
	for client, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, client)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup every interval until ctx is done
func (l *Limiter) StartCleanup(ctx context.Context, interval, staleAfter time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup(staleAfter)
			}
		}
	}()
}

// Len returns the number of tracked clients
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
