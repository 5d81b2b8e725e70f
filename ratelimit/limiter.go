package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter admits at most maxRequests calls per sliding window. Admission
// timestamps are appended on each admitted call and pruned lazily once
// stale. A token bucket smooths bursts proactively so admitted calls are
// spread across the window rather than clustered at its start.
type Limiter struct {
	mu     sync.Mutex
	stamps []time.Time
	limit  int
	window time.Duration
	bucket *rate.Limiter

	// now is replaceable for tests.
	now func() time.Time
}

// New creates a limiter admitting maxRequests calls per window.
func New(maxRequests int, window time.Duration) *Limiter {
	if maxRequests < 1 {
		maxRequests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	perSecond := float64(maxRequests) / window.Seconds()
	return &Limiter{
		limit:  maxRequests,
		window: window,
		bucket: rate.NewLimiter(rate.Limit(perSecond), maxRequests),
		now:    time.Now,
	}
}

// Acquire blocks until the call is admitted or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.bucket.Wait(ctx); err != nil {
		return err
	}

	for {
		admitted, wait := l.tryAdmit()
		if admitted {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// TryAcquire admits the call if the window has room, without blocking.
// The proactive bucket is consulted but not waited on.
func (l *Limiter) TryAcquire() bool {
	if !l.bucket.Allow() {
		return false
	}
	admitted, _ := l.tryAdmit()
	return admitted
}

// Admitted returns the number of admissions currently inside the window.
func (l *Limiter) Admitted() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.stamps)
}

// tryAdmit records an admission if the window has room. When full, it
// returns how long until the oldest entry leaves the window.
func (l *Limiter) tryAdmit() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.stamps) < l.limit {
		l.stamps = append(l.stamps, now)
		return true, 0
	}

	wait := l.stamps[0].Add(l.window).Sub(now)
	if wait < time.Millisecond {
		wait = time.Millisecond
	}
	return false, wait
}

// prune drops timestamps older than the window. Callers hold the lock.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[i:]...)
	}
}
