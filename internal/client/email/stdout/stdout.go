// Package stdout implements an email.Sender that only logs messages.
// Useful for local development.
package stdout

import (
	"context"

	"go.uber.org/zap"

	"github.com/cyphera/order-mailer/internal/client/email"
	"github.com/cyphera/order-mailer/internal/constants"
)

// Sender logs every message instead of delivering it.
type Sender struct {
	logger *zap.Logger
}

// New creates a log-only sender.
func New(logger *zap.Logger) *Sender {
	return &Sender{logger: logger}
}

// Name returns the provider name.
func (s *Sender) Name() string {
	return constants.StdoutProvider
}

// Send logs the message envelope and body.
func (s *Sender) Send(_ context.Context, msg *email.Message) error {
	contentIDs := make([]string, len(msg.Attachments))
	for i, att := range msg.Attachments {
		contentIDs[i] = att.ContentID
	}

	s.logger.Info("email (dev mode - not actually sent)",
		zap.String("to", msg.To),
		zap.String("from", msg.From.String()),
		zap.String("reply_to", msg.ReplyTo),
		zap.String("subject", msg.Subject),
		zap.Strings("categories", msg.Categories),
		zap.Any("headers", msg.Headers),
		zap.Strings("content_ids", contentIDs),
		zap.String("html", msg.HTML),
	)
	return nil
}
