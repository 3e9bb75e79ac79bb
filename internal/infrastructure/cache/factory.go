package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/infrastructure/config"
)

// NewStore creates the Store selected by cfg.Backend.
// When Redis is selected but unreachable the factory falls back to an in-memory store.
func NewStore(ctx context.Context, cfg config.ShippingCacheConfig, redisCfg config.RedisConfig, logger *zap.Logger) Store {
	if cfg.Backend == config.CacheBackendMemory {
		logger.Info("Using in-memory shipping config cache", zap.Duration("ttl", cfg.TTL))
		return NewInMemoryStore()
	}

	store, err := NewRedisStore(ctx, redisCfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory shipping config cache. "+
			"Instances will not share cached configuration.",
			zap.Error(err),
		)
		return NewInMemoryStore()
	}

	logger.Info("Using Redis shipping config cache",
		zap.String("addr", redisCfg.Addr()),
		zap.Duration("ttl", cfg.TTL),
	)
	return store
}
