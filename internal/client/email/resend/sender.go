// Package resend implements email.Sender using the Resend API.
package resend

import (
	"context"
	"encoding/base64"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"

	"github.com/cyphera/order-mailer/internal/client/email"
	"github.com/cyphera/order-mailer/internal/constants"
)

// EmailsAPI is the subset of the Resend emails service used by Sender.
type EmailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Sender sends messages through Resend.
type Sender struct {
	emails EmailsAPI
	logger *zap.Logger
}

// New creates a Sender authenticated with the given API key.
func New(apiKey string, logger *zap.Logger) *Sender {
	client := resend.NewClient(apiKey)
	return NewWithClient(client.Emails, logger)
}

// NewWithClient creates a Sender around an existing emails service, used for testing.
func NewWithClient(emails EmailsAPI, logger *zap.Logger) *Sender {
	return &Sender{
		emails: emails,
		logger: logger,
	}
}

// Name returns the provider name.
func (s *Sender) Name() string {
	return constants.ResendProvider
}

// Send implements email.Sender.
func (s *Sender) Send(ctx context.Context, msg *email.Message) error {
	req, err := buildRequest(msg)
	if err != nil {
		return err
	}

	sent, err := s.emails.SendWithContext(ctx, req)
	if err != nil {
		s.logger.Error("failed to send email via resend",
			zap.Error(err),
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
		return errors.Wrap(err, "resend: failed to send email")
	}

	s.logger.Info("resend accepted message",
		zap.String("email_id", sent.Id),
		zap.String("to", msg.To))
	return nil
}

func buildRequest(msg *email.Message) (*resend.SendEmailRequest, error) {
	req := &resend.SendEmailRequest{
		From:    msg.From.String(),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
		Headers: msg.Headers,
	}

	if len(msg.Attachments) > 0 {
		attachments, err := convertAttachments(msg.Attachments)
		if err != nil {
			return nil, err
		}
		req.Attachments = attachments
	}

	// Resend tag values only allow ASCII letters, numbers, underscores and dashes.
	for _, category := range msg.Categories {
		req.Tags = append(req.Tags, resend.Tag{Name: "category", Value: category})
	}

	return req, nil
}

func convertAttachments(attachments []email.Attachment) ([]*resend.Attachment, error) {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		content, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return nil, errors.Wrapf(err, "resend: attachment %q is not valid base64", a.Filename)
		}
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     content,
			ContentType: a.Type,
			ContentId:   a.ContentID,
		}
	}
	return result, nil
}
