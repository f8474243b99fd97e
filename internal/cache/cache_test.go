package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestCache(t *testing.T) (*Cache, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	c := NewWithClock(zap.NewNop(), time.Hour, clock.Now)
	t.Cleanup(c.Destroy)
	return c, clock
}

func TestSetAndGetFresh(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("k", "v", time.Second)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
	assert.True(t, c.Has("k"))
}

func TestGetEvictsExpiredEntry(t *testing.T) {
	c, clock := newTestCache(t)

	c.Set("k", "v", time.Second)
	clock.Advance(2 * time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.False(t, c.Has("k"))
	// The stale hit was evicted, not just hidden.
	assert.Equal(t, 0, c.Stats().Size)
}

func TestSetOverwritesExistingEntry(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("k", 1, time.Minute)
	c.Set("k", 2, time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Stats().Size)
}

func TestNonPositiveTTLIsClamped(t *testing.T) {
	c, clock := newTestCache(t)

	c.Set("k", "v", 0)
	assert.True(t, c.Has("k"))

	clock.Advance(1500 * time.Millisecond)
	assert.False(t, c.Has("k"))
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("k", "v", time.Minute)
	assert.True(t, c.Delete("k"))
	assert.False(t, c.Delete("k"))
	assert.False(t, c.Has("k"))
}

func TestClear(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()

	assert.Equal(t, 0, c.Stats().Size)
	assert.False(t, c.Has("a"))
}

func TestStats(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	stats := c.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.ElementsMatch(t, []string{"a", "b"}, stats.Keys)
}

func TestSweepEvictsExpiredEntries(t *testing.T) {
	clock := newFakeClock()
	c := NewWithClock(zap.NewNop(), 10*time.Millisecond, clock.Now)
	defer c.Destroy()

	c.Set("stale", "v", time.Second)
	c.Set("fresh", "v", time.Hour)
	clock.Advance(2 * time.Second)

	// Wait for at least one sweep tick without touching the stale key.
	assert.Eventually(t, func() bool {
		return c.Stats().Size == 1
	}, time.Second, 10*time.Millisecond)
	assert.True(t, c.Has("fresh"))
}

func TestDestroyStopsSweepAndClears(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("k", "v", time.Minute)
	c.Destroy()

	assert.Equal(t, 0, c.Stats().Size)
	// Idempotent.
	c.Destroy()
}

func TestFetchReturnsCachedValue(t *testing.T) {
	c, _ := newTestCache(t)

	calls := 0
	producer := func() (string, error) {
		calls++
		return "value", nil
	}

	v, err := Fetch(c, "k", time.Minute, producer)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = Fetch(c, "k", time.Minute, producer)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)
}

func TestFetchRefreshesAfterExpiry(t *testing.T) {
	c, clock := newTestCache(t)

	calls := 0
	producer := func() (int, error) {
		calls++
		return calls, nil
	}

	v, err := Fetch(c, "k", time.Second, producer)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.Advance(2 * time.Second)

	v, err = Fetch(c, "k", time.Second, producer)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestFetchDoesNotCacheFailure(t *testing.T) {
	c, _ := newTestCache(t)

	producerErr := errors.New("backend down")
	_, err := Fetch(c, "k", time.Minute, func() (string, error) {
		return "", producerErr
	})
	require.ErrorIs(t, err, producerErr)
	assert.False(t, c.Has("k"))
	assert.Equal(t, 0, c.Stats().Size)
}
