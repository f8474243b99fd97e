package gemini

import (
	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/config"
	"github.com/loopcrm/loopcrm/internal/core"
	"github.com/loopcrm/loopcrm/internal/utils"
)

// Factory creates new instances of Generator
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for Generator instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateGenerator creates a new Gemini content generator
func (f *Factory) CreateGenerator() (core.ContentGenerator, error) {
	geminiCfg := f.cfg.GetGemini()

	return NewGenerator(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		geminiCfg.MaxPromptSize,
		f.logger,
		f.textProcessor,
	)
}
