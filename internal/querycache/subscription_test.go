package querycache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSubscriberCounting(t *testing.T) {
	c := New()
	key := NewKey("getProducts")

	a := c.Subscribe(key)
	b := c.Subscribe(key)
	assert.Equal(t, 2, c.Peek(key).Subscribers)

	a.Release()
	a.Release()
	assert.Equal(t, 1, c.Peek(key).Subscribers)

	b.Release()
	assert.Equal(t, 0, c.Peek(key).Subscribers)
}

func TestSweepRemovesOnlyUnusedEntries(t *testing.T) {
	clk := &clock{now: time.Unix(1700000000, 0)}
	c := New(WithClock(clk.Now), WithKeepUnused(time.Minute))

	var calls int32
	used := countingQuery(NewKey("getProducts"), &calls, 1, nil)
	unused := countingQuery(NewKey("getProductById", "A"), &calls, 2, nil)

	sub := c.Subscribe(used.Key)
	defer sub.Release()
	c.Fetch(context.Background(), used)
	c.Fetch(context.Background(), unused)

	assert.Equal(t, 0, c.Sweep())

	clk.Advance(2 * time.Minute)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, StatusFulfilled, c.Peek(used.Key).Status)
	assert.Equal(t, StatusUninitialized, c.Peek(unused.Key).Status)

	st := c.Stats()
	assert.Equal(t, 1, st.Entries)
	assert.Equal(t, 1, st.Subscribed)
	assert.Equal(t, 1, st.ByStatus["fulfilled"])
}

func TestRunStopsWithContext(t *testing.T) {
	c := New(WithKeepUnused(0))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond)
		close(done)
	}()

	c.Subscribe(NewKey("x")).Release()
	assert.Eventually(t, func() bool { return c.Stats().Entries == 0 }, time.Second, time.Millisecond)

	cancel()
	<-done
}
