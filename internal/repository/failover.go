package repository

import (
	"context"
	"time"

	"barokah/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverCache tries the primary (Redis) and silently degrades to the
// in-memory fallback when the primary errors. A cache failure must never
// take a read path down; worst case is a redundant store round-trip.
type FailoverCache struct {
	primary  domain.Cache
	fallback domain.Cache
	log      zerolog.Logger
}

func NewFailoverCache(primary, fallback domain.Cache, logger *zerolog.Logger) *FailoverCache {
	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "cache").Logger()
	}
	return &FailoverCache{primary: primary, fallback: fallback, log: log}
}

func (c *FailoverCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.primary != nil {
		value, ok, err := c.primary.Get(ctx, key)
		if err == nil {
			return value, ok, nil
		}
		c.log.Warn().Err(err).Str("key", key).Msg("primary cache get failed, using fallback")
	}
	return c.fallback.Get(ctx, key)
}

func (c *FailoverCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.primary != nil {
		if err := c.primary.Set(ctx, key, value, ttl); err == nil {
			return nil
		} else {
			c.log.Warn().Err(err).Str("key", key).Msg("primary cache set failed, using fallback")
		}
	}
	return c.fallback.Set(ctx, key, value, ttl)
}

func (c *FailoverCache) Delete(ctx context.Context, keys ...string) error {
	// Delete from both: a stale entry left in either layer would survive
	// an invalidation.
	var firstErr error
	if c.primary != nil {
		if err := c.primary.Delete(ctx, keys...); err != nil {
			c.log.Warn().Err(err).Msg("primary cache delete failed")
			firstErr = err
		}
	}
	if err := c.fallback.Delete(ctx, keys...); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
