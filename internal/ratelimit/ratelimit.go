// Package ratelimit provides per-key token buckets, e.g. one bucket per user.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL is how long an unused bucket is kept before it is swept.
const idleTTL = 30 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed holds one token bucket per key. Each bucket allows limit events per
// window with a burst of limit.
type Keyed struct {
	mu        sync.Mutex
	buckets   map[string]*entry
	every     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewKeyed creates a Keyed limiter allowing limit events per window for each key.
func NewKeyed(limit int, window time.Duration) *Keyed {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Keyed{
		buckets: make(map[string]*entry),
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		now:     time.Now,
	}
}

// Allow reports whether an event for key may happen now, consuming a token if so.
func (k *Keyed) Allow(key string) bool {
	return k.bucket(key).AllowN(k.now(), 1)
}

// Reserve takes a token for key if one is available now and returns zero.
// Otherwise nothing is consumed and it returns how long until the next token.
func (k *Keyed) Reserve(key string) time.Duration {
	now := k.now()
	r := k.bucket(key).ReserveN(now, 1)
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
	}
	return delay
}

// Len returns the number of live buckets.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

func (k *Keyed) bucket(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastSweep) > idleTTL {
		for name, e := range k.buckets {
			if now.Sub(e.lastSeen) > idleTTL {
				delete(k.buckets, name)
			}
		}
		k.lastSweep = now
	}

	e, ok := k.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.every, k.burst)}
		k.buckets[key] = e
	}
	e.lastSeen = now
	return e.limiter
}
