package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestMemory(max int) (*Memory, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(max, 0)
	m.now = clock.now
	return m, clock
}

func TestMemory_PutGet(t *testing.T) {
	m, _ := newTestMemory(10)
	ctx := context.Background()

	_, ok, err := m.Get(ctx, "exercise:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put(ctx, "exercise:a", `{"id":"a"}`, time.Hour))
	v, ok, err := m.Get(ctx, "exercise:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"a"}`, v)
}

func TestMemory_Expiry(t *testing.T) {
	m, clock := newTestMemory(10)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", "v", time.Minute))
	require.NoError(t, m.Put(ctx, "forever", "v", 0))

	clock.t = clock.t.Add(time.Minute)
	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire at its deadline")

	_, ok, _ = m.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	m, _ := newTestMemory(2)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "old", "1", time.Hour))
	require.NoError(t, m.Put(ctx, "used", "2", time.Hour))
	_, ok, _ := m.Get(ctx, "old")
	require.True(t, ok)

	require.NoError(t, m.Put(ctx, "new", "3", time.Hour))

	assert.Equal(t, 2, m.Len())
	_, ok, _ = m.Get(ctx, "used")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok, _ = m.Get(ctx, "old")
	assert.True(t, ok)
}

func TestMemory_MaxTTL(t *testing.T) {
	m := NewMemory(10, 20*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", "v", time.Hour))
	_, ok, _ := m.Get(ctx, "k")
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok, _ := m.Get(ctx, "k")
		return !ok
	}, time.Second, 10*time.Millisecond, "entry should not outlive the store TTL")
}

func TestMemory_OverwriteDoesNotEvict(t *testing.T) {
	m, _ := newTestMemory(1)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", "1", time.Hour))
	require.NoError(t, m.Put(ctx, "k", "2", time.Hour))

	v, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestRedis_UnreachableServer(t *testing.T) {
	r := NewRedis(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}))
	t.Cleanup(func() { r.Close() })

	ctx := context.Background()
	_, ok, err := r.Get(ctx, "exercise:x")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, r.Put(ctx, "exercise:x", "v", time.Minute))
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	r, err := OpenRedis(context.Background(), "redis://"+srv.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, srv
}

func TestRedis_PutGet(t *testing.T) {
	r, srv := newTestRedis(t)
	ctx := context.Background()

	_, ok, err := r.Get(ctx, "exercise:missing")
	require.NoError(t, err, "a missing key is a miss, not an error")
	assert.False(t, ok)

	require.NoError(t, r.Put(ctx, "exercise:a", `{"id":"a"}`, time.Hour))
	v, ok, err := r.Get(ctx, "exercise:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"a"}`, v)

	got, err := srv.Get("exercise:a")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"a"}`, got)
	assert.Equal(t, time.Hour, srv.TTL("exercise:a"))
}

func TestRedis_Expiry(t *testing.T) {
	r, srv := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Put(ctx, "k", "v", time.Minute))
	require.NoError(t, r.Put(ctx, "forever", "v", 0))
	assert.Equal(t, time.Duration(0), srv.TTL("forever"))

	srv.FastForward(time.Minute)

	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = r.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpenRedis_BadURL(t *testing.T) {
	_, err := OpenRedis(context.Background(), "not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}
