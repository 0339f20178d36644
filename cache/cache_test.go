package cache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is an adjustable time source.
type testClock struct {
	now time.Time
}

func (tc *testClock) Now() time.Time { return tc.now }

func (tc *testClock) Advance(d time.Duration) { tc.now = tc.now.Add(d) }

func newTestCache(opts ...Option) (*Cache, *testClock) {
	clock := &testClock{now: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	opts = append(opts, WithClock(clock.Now))
	return New(opts...), clock
}

func TestKeyFor(t *testing.T) {
	t.Run("positional args are order sensitive", func(t *testing.T) {
		a := KeyFor("search", []any{"클라우드", "기술문서"}, nil)
		b := KeyFor("search", []any{"기술문서", "클라우드"}, nil)
		assert.NotEqual(t, a, b)
	})

	t.Run("keyword args are order insensitive", func(t *testing.T) {
		a := KeyFor("search", nil, map[string]string{"category": "전체", "limit": "20"})
		b := KeyFor("search", nil, map[string]string{"limit": "20", "category": "전체"})
		assert.Equal(t, a, b)
	})

	t.Run("operation name distinguishes keys", func(t *testing.T) {
		a := KeyFor("search", []any{"질의"}, nil)
		b := KeyFor("generate", []any{"질의"}, nil)
		assert.NotEqual(t, a, b)
	})
}

func TestCache_Do_Memoizes(t *testing.T) {
	c, _ := newTestCache()

	calls := 0
	fn := func() (any, error) {
		calls++
		return "result", nil
	}

	v, err := c.Do("key", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, "result", v)

	v, err = c.Do("key", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, "result", v)
	assert.Equal(t, 1, calls, "second call within TTL must not re-execute")

	stats := c.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCache_Do_TTLExpiry(t *testing.T) {
	c, clock := newTestCache()

	calls := 0
	fn := func() (any, error) {
		calls++
		return calls, nil
	}

	_, err := c.Do("key", time.Minute, fn)
	require.NoError(t, err)

	clock.Advance(59 * time.Second)
	v, err := c.Do("key", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.Advance(2 * time.Second)
	v, err = c.Do("key", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "expired entry must be recomputed")
	assert.Equal(t, 2, calls)
}

func TestCache_Do_ErrorNotCached(t *testing.T) {
	c, _ := newTestCache()

	boom := errors.New("boom")
	calls := 0

	_, err := c.Do("key", time.Minute, func() (any, error) {
		calls++
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	v, err := c.Do("key", time.Minute, func() (any, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}

func TestCache_Do_ConcurrentDistinctKeys(t *testing.T) {
	c, _ := newTestCache()

	var calls atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Do(fmt.Sprintf("key-%d", i), time.Hour, func() (any, error) {
				calls.Add(1)
				return i, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, i, v)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(50), calls.Load())
	assert.Equal(t, 50, c.Len())
}

func TestCache_Do_ConcurrentSameKey(t *testing.T) {
	c, _ := newTestCache()

	var calls atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Do("shared", time.Hour, func() (any, error) {
				calls.Add(1)
				return "result", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "result", v)
		}()
	}
	wg.Wait()

	// The lock is not held around fn, so overlapping misses may each
	// execute it; every execution stores the same value under one key.
	assert.GreaterOrEqual(t, calls.Load(), int64(1))
	assert.LessOrEqual(t, calls.Load(), int64(50))
	assert.Equal(t, 1, c.Len())
}

func TestCache_Do_OverlappingMissesBothExecute(t *testing.T) {
	c, _ := newTestCache()

	// Hold both callers inside fn until each has entered it. A cache
	// that collapsed concurrent misses into one execution would
	// deadlock here; this one runs fn twice.
	var entered sync.WaitGroup
	entered.Add(2)

	var calls atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Do("shared", time.Hour, func() (any, error) {
				calls.Add(1)
				entered.Done()
				entered.Wait()
				return "result", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "result", v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(2), calls.Load())
	assert.Equal(t, 1, c.Len())

	stats := c.GetStats()
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, int64(0), stats.Hits)
}

func TestCache_CapacityEviction(t *testing.T) {
	c, clock := newTestCache()

	// Insert 105 entries with strictly increasing creation times.
	for i := 0; i < 105; i++ {
		key := fmt.Sprintf("key-%03d", i)
		_, err := c.Do(key, time.Hour, func() (any, error) { return i, nil })
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	assert.Equal(t, DefaultMaxSize, c.Len())

	// The five oldest entries are gone; the newest survive.
	for i := 0; i < 5; i++ {
		assert.False(t, c.Contains(fmt.Sprintf("key-%03d", i), time.Hour), "key-%03d should be evicted", i)
	}
	for i := 5; i < 105; i++ {
		assert.True(t, c.Contains(fmt.Sprintf("key-%03d", i), time.Hour), "key-%03d should survive", i)
	}
}

func TestCache_WithMaxSize(t *testing.T) {
	c, clock := newTestCache(WithMaxSize(2))

	for i := 0; i < 3; i++ {
		_, err := c.Do(fmt.Sprintf("key-%d", i), time.Hour, func() (any, error) { return i, nil })
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	assert.Equal(t, 2, c.Len())
	assert.False(t, c.Contains("key-0", time.Hour))
	assert.True(t, c.Contains("key-2", time.Hour))
}

func TestCache_Clear(t *testing.T) {
	c, _ := newTestCache()

	_, err := c.Do("key", time.Hour, func() (any, error) { return 1, nil })
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}
