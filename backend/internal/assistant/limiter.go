package assistant

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// UserLimiter keeps one token bucket per user
type UserLimiter struct {
	mu      sync.Mutex
	every   time.Duration
	burst   int
	idleTTL time.Duration
	now     func() time.Time
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewUserLimiter allows one request per `every` with the given burst
func NewUserLimiter(every time.Duration, burst int) *UserLimiter {
	return &UserLimiter{
		every:   every,
		burst:   burst,
		idleTTL: 10 * time.Minute,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow spends one token from userID's bucket
func (l *UserLimiter) Allow(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[userID]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.buckets[userID] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Sweep forgets buckets idle for longer than the idle TTL. A forgotten
// bucket refills fully, which an idle bucket would have done anyway.
func (l *UserLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idleTTL)
	n := 0
	for id, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, id)
			n++
		}
	}
	return n
}
