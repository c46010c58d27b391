package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timings struct {
	Fajr    string `json:"fajr"`
	Maghrib string `json:"maghrib"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, 200*time.Millisecond), mr
}

func TestGetOrFetch_MissThenHit(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0
	fetch := func(context.Context) (timings, error) {
		calls++
		return timings{Fajr: "05:01", Maghrib: "18:32"}, nil
	}

	got, err := GetOrFetch(ctx, c, "prayer:a", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, "05:01", got.Fajr)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("prayer:a"))
	assert.Equal(t, time.Hour, mr.TTL("prayer:a"))

	got, err = GetOrFetch(ctx, c, "prayer:a", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, "18:32", got.Maghrib)
	assert.Equal(t, 1, calls, "second read must be served from the cache")
}

func TestGetOrFetch_ExpiredEntryRefetches(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	_, err := GetOrFetch(ctx, c, "k", time.Minute, fetch)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	got, err := GetOrFetch(ctx, c, "k", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestGetOrFetch_FetchErrorNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	upstream := errors.New("upstream down")

	_, err := GetOrFetch(context.Background(), c, "k", time.Minute, func(context.Context) (string, error) {
		return "", upstream
	})
	assert.ErrorIs(t, err, upstream)
	assert.False(t, mr.Exists("k"))
}

func TestGetOrFetch_RedisDownFallsThrough(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	got, err := GetOrFetch(context.Background(), c, "k", time.Minute, func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestGetOrFetch_CorruptEntryRefetches(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("k", "{not json"))

	got, err := GetOrFetch(context.Background(), c, "k", time.Minute, func(context.Context) (timings, error) {
		return timings{Fajr: "04:59"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "04:59", got.Fajr)
}

func TestGetOrFetch_NilCache(t *testing.T) {
	got, err := GetOrFetch(context.Background(), nil, "k", time.Minute, func(context.Context) (string, error) {
		return "direct", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", got)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "prayer:12.9716:77.5946:2:02-03-2025", Key("prayer", "12.9716", "77.5946", "2", "02-03-2025"))
}
