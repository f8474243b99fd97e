package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/core"
)

// SMTPMailer is an implementation of the Mailer interface over a
// transactional SMTP relay.
type SMTPMailer struct {
	addr     string
	username string
	password string
	logger   *zap.Logger
}

// NewSMTPMailer creates a new SMTP mailer. An empty username disables
// authentication.
func NewSMTPMailer(addr, username, password string, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		addr:     addr,
		username: username,
		password: password,
		logger:   logger,
	}
}

// Send delivers one message through the relay.
func (m *SMTPMailer) Send(ctx context.Context, msg *core.OutboundEmail) error {
	if msg.To == "" {
		return fmt.Errorf("%w: message has no recipient", core.ErrInvalidInput)
	}

	var auth sasl.Client
	if m.username != "" {
		auth = sasl.NewPlainClient("", m.username, m.password)
	}

	raw := buildMessage(msg)
	if err := smtp.SendMail(m.addr, auth, msg.From, []string{msg.To}, strings.NewReader(raw)); err != nil {
		return fmt.Errorf("smtp delivery failed: %w", err)
	}

	m.logger.Info("Delivered message",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))

	return nil
}

func buildMessage(msg *core.OutboundEmail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return b.String()
}
