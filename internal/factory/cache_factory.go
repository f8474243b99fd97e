package factory

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/cache"
	"github.com/loopcrm/loopcrm/internal/config"
)

// CacheFactory creates the shared in-process cache
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCache creates the process-wide cache instance
func (f *CacheFactory) CreateCache() (*cache.Cache, error) {
	sweepInterval, err := f.cfg.GetDuration("cache.sweep_interval")
	if err != nil {
		return nil, fmt.Errorf("invalid cache sweep interval: %w", err)
	}
	return cache.New(f.logger, sweepInterval), nil
}

// GetAnalyticsTTL returns the configured analytics summary TTL
func (f *CacheFactory) GetAnalyticsTTL() (time.Duration, error) {
	return f.cfg.GetDuration("cache.analytics_ttl")
}

// IsCacheEnabled returns whether analytics caching is enabled
func (f *CacheFactory) IsCacheEnabled() bool {
	return f.cfg.GetBool("cache.enabled")
}
