// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"agripivot_backend/internal/feature/forecast/usecase"
	"agripivot_backend/internal/feature/prices/domain/entity"
)

// CachingPriceRepository decorates a PriceReader with Redis caching.
// Mandi prices only change once a day, so entries live until the next
// morning refresh. Seeding runs as a separate offline process; it does not
// go through this decorator, stale entries simply expire.
type CachingPriceRepository struct {
	inner     usecase.PriceReader
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.PriceReader = (*CachingPriceRepository)(nil)

// NewCachingPriceRepository decorates a PriceReader with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "prices".
func NewCachingPriceRepository(rdb *redis.Client, ttl time.Duration, inner usecase.PriceReader, namespace string) *CachingPriceRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "prices"
	}
	return &CachingPriceRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindSeries retrieves the full series, checking cache first then falling
// back to the database.
func (c *CachingPriceRepository) FindSeries(ctx context.Context, commodity string) ([]entity.PriceObservation, error) {
	if c.rdb == nil {
		return c.inner.FindSeries(ctx, commodity)
	}

	key := c.namespace + ":series:" + safe(commodity)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.PriceObservation
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Drop the corrupted entry and fall through to the database.
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FindSeries(ctx, commodity)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err() // best effort
	}
	return out, nil
}

// FindLatest retrieves the newest observation, cached under its own key so
// the synthetic seed lookup does not pull the whole series into Redis.
func (c *CachingPriceRepository) FindLatest(ctx context.Context, commodity string) (*entity.PriceObservation, error) {
	if c.rdb == nil {
		return c.inner.FindLatest(ctx, commodity)
	}

	key := c.namespace + ":latest:" + safe(commodity)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.PriceObservation
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FindLatest(ctx, commodity)
	if err != nil {
		return nil, err
	}
	if out == nil {
		// Absent is a valid answer, but caching it would hide fresh seeds.
		return nil, nil
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err() // best effort
	}
	return out, nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
