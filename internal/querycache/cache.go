// Package querycache is a normalized request cache: one entry per query key,
// at most one request in flight per key, and cache-first reads.
package querycache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"storefront/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Status is the lifecycle state of a cache entry.
type Status int

const (
	StatusUninitialized Status = iota
	StatusPending
	StatusFulfilled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "uninitialized"
	}
}

// Query describes how to resolve a key. Decode is only needed when the cache
// has a PayloadStore; queries without it bypass the store.
type Query struct {
	Key    Key
	Fetch  func(ctx context.Context) (any, error)
	Decode func(payload []byte) (any, error)
}

// Snapshot is an immutable copy of an entry.
type Snapshot struct {
	Key         Key
	Status      Status
	Value       any
	Err         error
	UpdatedAt   time.Time
	Subscribers int
}

// PayloadStore is an optional second-level store shared between processes.
type PayloadStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

type entry struct {
	status      Status
	value       any
	err         error
	updatedAt   time.Time
	subscribers int
	unusedSince time.Time
	query       Query
}

// Cache is safe for concurrent use. A process holds one instance shared by
// every view.
type Cache struct {
	mu         sync.Mutex
	entries    map[Key]*entry
	group      singleflight.Group
	store      PayloadStore
	keepUnused time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithPayloadStore adds a second-level store consulted before the network.
func WithPayloadStore(store PayloadStore) Option {
	return func(c *Cache) { c.store = store }
}

// WithKeepUnused sets how long an entry without subscribers survives a sweep.
func WithKeepUnused(d time.Duration) Option {
	return func(c *Cache) { c.keepUnused = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[Key]*entry),
		keepUnused: 60 * time.Second,
		now:        time.Now,
		logger:     util.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the entry for q.Key, resolving it if it holds no fulfilled
// value. Concurrent callers for the same key share one resolution. When ctx
// ends before the resolution, the current (pending) snapshot is returned and
// the resolution keeps running for the other subscribers.
func (c *Cache) Fetch(ctx context.Context, q Query) Snapshot {
	c.mu.Lock()
	e := c.entryLocked(q.Key)
	e.query = q
	if e.status == StatusFulfilled {
		snap := e.snapshot(q.Key)
		c.mu.Unlock()
		util.CacheLookupsTotal.WithLabelValues(q.Key.Op, "hit").Inc()
		return snap
	}
	c.mu.Unlock()

	return c.resolve(ctx, q, false)
}

// Refetch forces a network resolution of a key the cache already knows.
// Unknown keys are left alone.
func (c *Cache) Refetch(ctx context.Context, key Key) Snapshot {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.query.Fetch == nil {
		c.mu.Unlock()
		return Snapshot{Key: key}
	}
	q := e.query
	c.mu.Unlock()

	return c.resolve(ctx, q, true)
}

// Peek returns the current entry without resolving anything.
func (c *Cache) Peek(key Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Snapshot{Key: key}
	}
	return e.snapshot(key)
}

// Keys lists the keys currently held.
func (c *Cache) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Invalidate drops the cached payload of key so the next Fetch goes to the
// network. Subscribers are kept.
func (c *Cache) Invalidate(ctx context.Context, key Key) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.status != StatusPending {
		e.status = StatusUninitialized
		e.value = nil
		e.err = nil
	}
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Delete(ctx, key.String()); err != nil {
			c.logger.Warn("Failed to delete payload from store", zap.String("key", key.String()), zap.Error(err))
		}
	}
}

func (c *Cache) resolve(ctx context.Context, q Query, force bool) Snapshot {
	name := q.Key.String()
	ch := c.group.DoChan(name, func() (any, error) {
		return c.run(context.WithoutCancel(ctx), q, force)
	})

	select {
	case res := <-ch:
		if res.Shared {
			util.CacheLookupsTotal.WithLabelValues(q.Key.Op, "shared").Inc()
		}
		snap := c.Peek(q.Key)
		if res.Err != nil {
			snap.Status, snap.Err = StatusRejected, res.Err
		} else {
			snap.Status, snap.Value, snap.Err = StatusFulfilled, res.Val, nil
		}
		return snap
	case <-ctx.Done():
		return c.Peek(q.Key)
	}
}

// run executes inside the singleflight group, so at most one run per key is
// active at any time.
func (c *Cache) run(ctx context.Context, q Query, force bool) (any, error) {
	c.mu.Lock()
	e := c.entryLocked(q.Key)
	if !force && e.status == StatusFulfilled {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	e.status = StatusPending
	c.mu.Unlock()

	if !force {
		if v, ok := c.loadStored(ctx, q); ok {
			c.settle(q.Key, v, nil)
			util.CacheLookupsTotal.WithLabelValues(q.Key.Op, "store_hit").Inc()
			return v, nil
		}
	}

	util.CacheLookupsTotal.WithLabelValues(q.Key.Op, "miss").Inc()
	v, err := q.Fetch(ctx)
	c.settle(q.Key, v, err)
	if err == nil {
		c.saveStored(ctx, q, v)
	}
	return v, err
}

// settle replaces status and payload in one step under the lock.
func (c *Cache) settle(key Key, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	if err != nil {
		e.status = StatusRejected
		e.err = err
		return
	}
	e.status = StatusFulfilled
	e.value = v
	e.err = nil
	e.updatedAt = c.now()
}

func (c *Cache) loadStored(ctx context.Context, q Query) (any, bool) {
	if c.store == nil || q.Decode == nil {
		return nil, false
	}
	payload, ok, err := c.store.Get(ctx, q.Key.String())
	if err != nil {
		c.logger.Warn("Payload store read failed", zap.String("key", q.Key.String()), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	v, err := q.Decode(payload)
	if err != nil {
		c.logger.Warn("Discarding undecodable stored payload", zap.String("key", q.Key.String()), zap.Error(err))
		return nil, false
	}
	return v, true
}

func (c *Cache) saveStored(ctx context.Context, q Query, v any) {
	if c.store == nil || q.Decode == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode payload", zap.String("key", q.Key.String()), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, q.Key.String(), payload); err != nil {
		c.logger.Warn("Payload store write failed", zap.String("key", q.Key.String()), zap.Error(err))
	}
}

func (c *Cache) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{unusedSince: c.now()}
		c.entries[key] = e
		util.CacheEntries.Set(float64(len(c.entries)))
	}
	return e
}

func (e *entry) snapshot(key Key) Snapshot {
	return Snapshot{
		Key:         key,
		Status:      e.status,
		Value:       e.value,
		Err:         e.err,
		UpdatedAt:   e.updatedAt,
		Subscribers: e.subscribers,
	}
}
