package cache

import (
	"go.uber.org/zap"

	"github.com/lerp/backend/internal/domain/sales"
	"github.com/lerp/backend/internal/infrastructure/config"
)

// NewCartStore creates the cart store for the deployment. Redis is used
// when enabled; otherwise, or when Redis is unreachable, it falls back
// to the in-memory store.
func NewCartStore(cfg *config.Config, logger *zap.Logger) sales.CartStore {
	if cfg.Redis.Enabled {
		store, err := NewRedisCartStore(cfg.Redis, cfg.Cart.TTL)
		if err == nil {
			logger.Info("using Redis cart store", zap.String("addr", cfg.Redis.Addr()))
			return store
		}
		logger.Warn("Redis unavailable, falling back to in-memory cart store", zap.Error(err))
	}
	logger.Info("using in-memory cart store")
	return NewInMemoryCartStore(cfg.Cart.TTL)
}
