package httpadapter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter rate limits per client key with a token bucket each.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rps      float64
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(rps float64, burst int, idle time.Duration) *clientLimiter {
	return &clientLimiter{
		limiters: map[string]*limiterEntry{},
		rps:      rps,
		burst:    burst,
		idle:     idle,
		now:      time.Now,
	}
}

func (l *clientLimiter) Allow(key string) bool {
	l.mu.Lock()
	e, ok := l.limiters[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.limiters[key] = e
	}
	now := l.now()
	e.lastSeen = now
	l.mu.Unlock()
	return e.lim.AllowN(now, 1)
}

// PruneExpired forgets clients idle for longer than the idle window.
func (l *clientLimiter) PruneExpired(_ context.Context, now time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int64
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idle {
			delete(l.limiters, k)
			n++
		}
	}
	return n, nil
}
