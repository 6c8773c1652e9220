// Package cache holds the in-process review cache. Concurrent access is an
// explicit contract here: all reads and writes go through a single
// mutex-guarded map rather than implicit shared state.
package cache

import (
	"sync"
	"time"

	"github.com/algoprep/backend/internal/domain"
)

const (
	// DefaultTTL is how long a computed review stays valid
	DefaultTTL = 30 * time.Minute
	// sweepThreshold triggers an opportunistic sweep of expired entries.
	// There is no bounded-size guarantee beyond this: under sustained load
	// of distinct keys the map keeps growing between sweeps.
	sweepThreshold = 100
)

type entry struct {
	review    *domain.Review
	timestamp time.Time
}

// ReviewCache is a TTL cache for computed reviews. Entries are advisory and
// short-lived; a stale or colliding entry costs at most one redundant
// upstream call.
type ReviewCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewReviewCache creates a cache with the default TTL
func NewReviewCache() *ReviewCache {
	return &ReviewCache{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
}

// NewReviewCacheWithClock creates a cache with an injected clock, for tests
func NewReviewCacheWithClock(ttl time.Duration, now func() time.Time) *ReviewCache {
	return &ReviewCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached review for key if it is still live
func (c *ReviewCache) Get(key string) (*domain.Review, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.timestamp) >= c.ttl {
		return nil, false
	}
	return e.review, true
}

// Put stores a review under key, sweeping expired entries once the map has
// grown past the threshold
func (c *ReviewCache) Put(key string, review *domain.Review) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{review: review, timestamp: c.now()}

	if len(c.entries) > sweepThreshold {
		c.sweepLocked()
	}
}

// Sweep removes all expired entries
func (c *ReviewCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
}

// Len reports the number of entries, expired ones included
func (c *ReviewCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ReviewCache) sweepLocked() {
	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.timestamp) >= c.ttl {
			delete(c.entries, key)
		}
	}
}
