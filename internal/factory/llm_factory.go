package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/adapters/bedrock"
	"github.com/loopcrm/loopcrm/internal/adapters/gemini"
	"github.com/loopcrm/loopcrm/internal/adapters/openai"
	"github.com/loopcrm/loopcrm/internal/config"
	"github.com/loopcrm/loopcrm/internal/core"
	"github.com/loopcrm/loopcrm/internal/utils"
)

// LLMFactory creates content generators
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateContentGenerator creates a content generator based on the
// configured provider.
func (f *LLMFactory) CreateContentGenerator() (core.ContentGenerator, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "openai":
		return openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateGenerator()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateGenerator()
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateGenerator()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
