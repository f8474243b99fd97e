package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/adapters/memory"
	mongostore "github.com/loopcrm/loopcrm/internal/adapters/mongo"
	"github.com/loopcrm/loopcrm/internal/config"
	"github.com/loopcrm/loopcrm/internal/core"
)

// StoreFactory creates document stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore creates a store based on the configuration
func (f *StoreFactory) CreateStore() (core.Store, error) {
	storeType := f.cfg.GetString("store.type")

	switch storeType {
	case "mongo":
		mongoCfg := f.cfg.GetMongo()
		timeout, err := f.cfg.GetDuration("mongo.timeout")
		if err != nil {
			return nil, fmt.Errorf("invalid mongo timeout: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return mongostore.NewStore(ctx, mongoCfg.URI, mongoCfg.Database, f.logger)
	case "memory":
		return memory.NewStore(f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}
