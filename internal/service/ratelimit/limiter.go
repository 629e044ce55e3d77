package ratelimit

import (
	"sync"
	"time"
)

const (
	pruneInterval = 10 * time.Minute
	pruneIdleAge  = time.Hour
)

// Limiter is a keyed token bucket. Chart computation fans out ephemeris
// calls per request, so the compute endpoints are throttled per client.
// A background janitor drops idle keys; Close stops it.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity float64
	refill   float64 // tokens per second

	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

type bucket struct {
	tokens float64
	last   time.Time
}

// New creates a limiter with the given burst capacity and refill rate.
func New(capacity, refillPerSec float64) *Limiter {
	if capacity <= 0 {
		capacity = 10
	}
	if refillPerSec <= 0 {
		refillPerSec = 5
	}
	l := &Limiter{
		buckets:  make(map[string]*bucket),
		capacity: capacity,
		refill:   refillPerSec,
		ticker:   time.NewTicker(pruneInterval),
		done:     make(chan struct{}),
	}
	go l.pruneLoop()
	return l
}

// Allow consumes one token for key, returning false when the bucket is dry.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Prune drops buckets idle longer than age.
func (l *Limiter) Prune(age time.Duration) {
	cutoff := time.Now().Add(-age)

	l.mu.Lock()
	defer l.mu.Unlock()
	for k, b := range l.buckets {
		if b.last.Before(cutoff) {
			delete(l.buckets, k)
		}
	}
}

// Close stops the janitor. Safe to call more than once.
func (l *Limiter) Close() error {
	l.closeOnce.Do(func() {
		l.ticker.Stop()
		close(l.done)
	})
	return nil
}

func (l *Limiter) pruneLoop() {
	for {
		select {
		case <-l.done:
			return
		case <-l.ticker.C:
			l.Prune(pruneIdleAge)
		}
	}
}
