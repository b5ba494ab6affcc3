package querycache

import (
	"context"
	"sync"
	"time"

	"storefront/internal/util"

	"go.uber.org/zap"
)

// Subscription keeps an entry alive while a view uses it.
type Subscription struct {
	cache *Cache
	key   Key
	once  sync.Once
}

// Subscribe registers interest in key. Release must be called when the view
// stops using the entry.
func (c *Cache) Subscribe(key Key) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entryLocked(key).subscribers++
	return &Subscription{cache: c, key: key}
}

// Key returns the subscribed key.
func (s *Subscription) Key() Key {
	return s.key
}

// Release drops the subscription. Calling it more than once is a no-op.
func (s *Subscription) Release() {
	s.once.Do(func() {
		c := s.cache
		c.mu.Lock()
		defer c.mu.Unlock()

		if e, ok := c.entries[s.key]; ok && e.subscribers > 0 {
			e.subscribers--
			if e.subscribers == 0 {
				e.unusedSince = c.now()
			}
		}
	})
}

// Sweep removes entries that have had no subscribers for longer than the
// keep-unused window and returns how many were removed. In-flight entries
// are never removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if e.subscribers > 0 || e.status == StatusPending {
			continue
		}
		if now.Sub(e.unusedSince) < c.keepUnused {
			continue
		}
		delete(c.entries, key)
		removed++
	}

	if removed > 0 {
		util.CacheEvictionsTotal.Add(float64(removed))
		util.CacheEntries.Set(float64(len(c.entries)))
		c.logger.Debug("Cache sweep completed",
			zap.Int("removed", removed),
			zap.Int("remaining", len(c.entries)))
	}
	return removed
}

// Run sweeps every interval until ctx ends.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-ctx.Done():
			return
		}
	}
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries    int            `json:"entries"`
	ByStatus   map[string]int `json:"by_status"`
	Subscribed int            `json:"subscribed"`
}

// Stats returns entry counts by status.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Stats{Entries: len(c.entries), ByStatus: map[string]int{}}
	for _, e := range c.entries {
		st.ByStatus[e.status.String()]++
		if e.subscribers > 0 {
			st.Subscribed++
		}
	}
	return st
}
