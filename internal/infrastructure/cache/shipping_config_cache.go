package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/shipping"
)

// CachedShippingConfig is a read-through cache in front of a shipping.ConfigReader.
// Cache failures degrade to a direct read; errors of the underlying reader are
// returned unchanged and never cached.
type CachedShippingConfig struct {
	next   shipping.ConfigReader
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// CachedShippingConfigOption is a functional option for configuring the cache
type CachedShippingConfigOption func(*CachedShippingConfig)

// WithCacheLogger sets the logger
func WithCacheLogger(logger *zap.Logger) CachedShippingConfigOption {
	return func(c *CachedShippingConfig) {
		c.logger = logger
	}
}

// NewCachedShippingConfig wraps next with store using ttl for every entry
func NewCachedShippingConfig(next shipping.ConfigReader, store Store, ttl time.Duration, opts ...CachedShippingConfigOption) *CachedShippingConfig {
	c := &CachedShippingConfig{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindActiveMethodsByMerchant implements shipping.MethodReader
func (c *CachedShippingConfig) FindActiveMethodsByMerchant(ctx context.Context, merchantID uuid.UUID) ([]shipping.ShippingMethod, error) {
	return readThrough(ctx, c, "shipping:methods:"+merchantID.String(), func() ([]shipping.ShippingMethod, error) {
		return c.next.FindActiveMethodsByMerchant(ctx, merchantID)
	})
}

// FindLocations implements shipping.LocationReader
func (c *CachedShippingConfig) FindLocations(ctx context.Context, query shipping.LocationQuery) ([]shipping.ZoneLocation, error) {
	key := fmt.Sprintf("shipping:locations:%s:%s", query.MethodID, strings.ToUpper(strings.TrimSpace(query.CountryCode)))
	return readThrough(ctx, c, key, func() ([]shipping.ZoneLocation, error) {
		return c.next.FindLocations(ctx, query)
	})
}

// FindRatesByZone implements shipping.RateReader
func (c *CachedShippingConfig) FindRatesByZone(ctx context.Context, zoneID uuid.UUID) ([]shipping.ShippingRate, error) {
	return readThrough(ctx, c, "shipping:rates:"+zoneID.String(), func() ([]shipping.ShippingRate, error) {
		return c.next.FindRatesByZone(ctx, zoneID)
	})
}

func readThrough[T any](ctx context.Context, c *CachedShippingConfig, key string, load func() ([]T, error)) ([]T, error) {
	data, found, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("Shipping config cache read failed", zap.String("key", key), zap.Error(err))
	case found:
		var cached []T
		if err := json.Unmarshal(data, &cached); err == nil {
			c.logger.Debug("Shipping config cache hit", zap.String("key", key))
			return cached, nil
		}
		c.logger.Warn("Discarding undecodable shipping config cache entry", zap.String("key", key), zap.Error(err))
	}

	values, err := load()
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(values)
	if err != nil {
		c.logger.Warn("Failed to encode shipping config for cache", zap.String("key", key), zap.Error(err))
		return values, nil
	}
	if err := c.store.Set(ctx, key, encoded, c.ttl); err != nil {
		c.logger.Warn("Shipping config cache write failed", zap.String("key", key), zap.Error(err))
	}
	return values, nil
}
