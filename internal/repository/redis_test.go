package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	cache := NewRedisCache(client)
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "k", []byte(`{"a":1}`), time.Hour))

		value, ok, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte(`{"a":1}`), value)
	})

	t.Run("MissIsNotAnError", func(t *testing.T) {
		_, ok, err := cache.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "ttl", []byte("x"), time.Second))
		s.FastForward(2 * time.Second)

		_, ok, err := cache.Get(ctx, "ttl")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "d1", []byte("x"), 0))
		require.NoError(t, cache.Set(ctx, "d2", []byte("y"), 0))
		require.NoError(t, cache.Delete(ctx, "d1", "d2"))

		_, ok, _ := cache.Get(ctx, "d1")
		assert.False(t, ok)
	})

	t.Run("NilClient", func(t *testing.T) {
		nilCache := NewRedisCache(nil)
		_, _, err := nilCache.Get(ctx, "k")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})
}
