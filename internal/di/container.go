package di

import (
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/adapters/httpapi"
	"github.com/loopcrm/loopcrm/internal/cache"
	"github.com/loopcrm/loopcrm/internal/config"
	"github.com/loopcrm/loopcrm/internal/core"
	"github.com/loopcrm/loopcrm/internal/factory"
	"github.com/loopcrm/loopcrm/internal/logging"
	"github.com/loopcrm/loopcrm/internal/suppression"
	"github.com/loopcrm/loopcrm/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMailerFactory); err != nil {
		return nil, err
	}

	// Register document store
	if err := container.Provide(func(f *factory.StoreFactory) (core.Store, error) {
		return f.CreateStore()
	}); err != nil {
		return nil, err
	}

	// Register content generator
	if err := container.Provide(func(f *factory.LLMFactory) (core.ContentGenerator, error) {
		return f.CreateContentGenerator()
	}); err != nil {
		return nil, err
	}

	// Register the process-wide cache. One instance, shared by reference.
	if err := container.Provide(func(f *factory.CacheFactory) (*cache.Cache, error) {
		return f.CreateCache()
	}); err != nil {
		return nil, err
	}

	// Register mailer
	if err := container.Provide(func(f *factory.MailerFactory) core.Mailer {
		return f.CreateMailer()
	}); err != nil {
		return nil, err
	}

	// Register suppression list
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *suppression.List {
		return suppression.NewList(cfg.GetStringSlice("suppression.statuses"), logger)
	}); err != nil {
		return nil, err
	}

	// Register engagement service
	if err := container.Provide(func(
		store core.Store,
		generator core.ContentGenerator,
		mailer core.Mailer,
		summaryCache *cache.Cache,
		suppressed *suppression.List,
		cfg *config.Config,
		logger *zap.Logger,
		cacheFactory *factory.CacheFactory,
	) (*core.EngagementService, error) {
		analyticsTTL, err := cacheFactory.GetAnalyticsTTL()
		if err != nil {
			return nil, fmt.Errorf("invalid analytics TTL: %w", err)
		}
		return core.NewEngagementService(
			store,
			generator,
			mailer,
			summaryCache,
			suppressed,
			logger,
			cacheFactory.IsCacheEnabled(),
			analyticsTTL,
			cfg.GetSMTP().From,
			core.SystemClock,
		), nil
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(service *core.EngagementService, cfg *config.Config, logger *zap.Logger) *httpapi.Server {
		return httpapi.NewServer(service, logger, cfg.GetString("server.listen_address"))
	}); err != nil {
		return nil, err
	}

	return container, nil
}
