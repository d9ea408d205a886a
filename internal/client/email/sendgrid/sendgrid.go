// Package sendgrid implements email.Sender with the SendGrid v3 Mail Send API.
package sendgrid

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/cyphera/order-mailer/internal/client/email"
	"github.com/cyphera/order-mailer/internal/constants"
)

// SendClient is the subset of the SendGrid client used by Sender.
type SendClient interface {
	SendWithContext(ctx context.Context, message *mail.SGMailV3) (*rest.Response, error)
}

// Sender sends messages through SendGrid.
type Sender struct {
	client SendClient
	logger *zap.Logger
}

// New creates a Sender authenticated with the given API key.
func New(apiKey string, logger *zap.Logger) *Sender {
	return NewWithClient(sg.NewSendClient(apiKey), logger)
}

// NewWithClient creates a Sender around an existing client, used for testing.
func NewWithClient(client SendClient, logger *zap.Logger) *Sender {
	return &Sender{
		client: client,
		logger: logger,
	}
}

// Name returns the provider name.
func (s *Sender) Name() string {
	return constants.SendGridProvider
}

// Send delivers msg with a single Mail Send request.
func (s *Sender) Send(ctx context.Context, msg *email.Message) error {
	resp, err := s.client.SendWithContext(ctx, buildMail(msg))
	if err != nil {
		return errors.Wrap(err, "sendgrid: request failed")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		perr := &email.ProviderError{
			Provider:   constants.SendGridProvider,
			StatusCode: resp.StatusCode,
			Errors:     parseErrors(resp.Body),
		}
		s.logger.Warn("sendgrid rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("to", msg.To),
			zap.Int("errors", len(perr.Errors)),
		)
		return perr
	}

	s.logger.Info("sendgrid accepted message",
		zap.Int("status", resp.StatusCode),
		zap.String("to", msg.To),
		zap.String("message_id", firstHeader(resp.Headers, "X-Message-Id")),
	)
	return nil
}

func buildMail(msg *email.Message) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(msg.From.Name, msg.From.Email))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", msg.To))
	m.AddPersonalizations(p)

	m.AddContent(mail.NewContent("text/html", msg.HTML))

	if msg.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}
	if len(msg.Categories) > 0 {
		m.AddCategories(msg.Categories...)
	}
	for key, value := range msg.Headers {
		m.SetHeader(key, value)
	}

	for _, att := range msg.Attachments {
		a := mail.NewAttachment()
		a.SetContent(att.Content)
		a.SetType(att.Type)
		a.SetFilename(att.Filename)
		a.SetDisposition(att.Disposition)
		a.SetContentID(att.ContentID)
		m.AddAttachment(a)
	}

	return m
}

// parseErrors extracts the "errors" array of a SendGrid error body.
// A body that is not the documented shape is returned as a single entry.
func parseErrors(body string) []json.RawMessage {
	var payload struct {
		Errors []json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil && payload.Errors != nil {
		return payload.Errors
	}

	raw, err := json.Marshal(map[string]string{"message": body})
	if err != nil {
		return nil
	}
	return []json.RawMessage{raw}
}

func firstHeader(headers map[string][]string, key string) string {
	if values := headers[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
