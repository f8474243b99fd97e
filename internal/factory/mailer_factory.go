package factory

import (
	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/adapters/mailer"
	"github.com/loopcrm/loopcrm/internal/config"
	"github.com/loopcrm/loopcrm/internal/core"
)

// MailerFactory creates the outbound mailer
type MailerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailerFactory creates a new mailer factory
func NewMailerFactory(cfg *config.Config, logger *zap.Logger) *MailerFactory {
	return &MailerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailer creates the SMTP mailer from configuration
func (f *MailerFactory) CreateMailer() core.Mailer {
	smtpCfg := f.cfg.GetSMTP()
	return mailer.NewSMTPMailer(smtpCfg.Address, smtpCfg.Username, smtpCfg.Password, f.logger)
}
