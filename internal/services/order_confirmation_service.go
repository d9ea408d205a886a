package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cyphera/order-mailer/internal/client/email"
	"github.com/cyphera/order-mailer/internal/constants"
	"github.com/cyphera/order-mailer/internal/types/requests"
)

// OrderConfirmationConfig configures OrderConfirmationService.
type OrderConfirmationConfig struct {
	// DefaultFromEmail is used when the request has neither senderEmail nor senderDomain.
	DefaultFromEmail string
	DefaultFromName  string
	// SanitizeHTML runs customMessage and senderName through the bluemonday UGC policy.
	SanitizeHTML bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// OrderConfirmationService validates, composes and dispatches order confirmation emails.
type OrderConfirmationService struct {
	sender    email.Sender
	config    OrderConfirmationConfig
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

// OrderConfirmationResult acknowledges an accepted send.
type OrderConfirmationResult struct {
	RecipientEmail string
	OrderNumber    string
}

func NewOrderConfirmationService(sender email.Sender, config OrderConfirmationConfig, logger *zap.Logger) *OrderConfirmationService {
	if config.Now == nil {
		config.Now = time.Now
	}

	var sanitizer *bluemonday.Policy
	if config.SanitizeHTML {
		sanitizer = bluemonday.UGCPolicy()
	}

	return &OrderConfirmationService{
		sender:    sender,
		config:    config,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// Compose validates req and builds the outbound message without sending it.
func (s *OrderConfirmationService) Compose(req *requests.OrderConfirmationRequest) (*email.Message, error) {
	if err := ValidateOrderConfirmation(req); err != nil {
		return nil, err
	}

	from := s.resolveSender(req)
	senderName := from.Name
	customMessage := req.CustomMessage
	if s.sanitizer != nil {
		senderName = s.sanitizer.Sanitize(senderName)
		customMessage = s.sanitizer.Sanitize(customMessage)
	}

	composed, err := composeOrderConfirmation(req, senderName, from.Email, customMessage, s.config.Now().Year())
	if err != nil {
		return nil, err
	}

	return &email.Message{
		To:         req.RecipientEmail,
		From:       from,
		Subject:    composed.Subject,
		HTML:       composed.HTML,
		ReplyTo:    from.Email,
		Categories: []string{constants.OrderConfirmationCategory},
		Headers: map[string]string{
			constants.EntityRefIDHeader: uuid.New().String(),
			constants.OrderNumberHeader: req.OrderNumber.String(),
		},
		Attachments: composed.Attachments,
	}, nil
}

// SendOrderConfirmation validates req, composes the email and makes exactly one
// delivery attempt. Validation failures are *ValidationError, provider refusals
// are *email.ProviderError; anything else is an internal error.
func (s *OrderConfirmationService) SendOrderConfirmation(ctx context.Context, req *requests.OrderConfirmationRequest) (*OrderConfirmationResult, error) {
	msg, err := s.Compose(req)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(
		zap.String("provider", s.sender.Name()),
		zap.String("to", msg.To),
		zap.String("order_number", req.OrderNumber.String()),
		zap.Int("images", len(msg.Attachments)),
	)

	if err := s.sender.Send(ctx, msg); err != nil {
		log.Error("failed to send order confirmation", zap.Error(err))
		return nil, errors.Wrap(err, "failed to send order confirmation")
	}

	log.Info("order confirmation sent")
	return &OrderConfirmationResult{
		RecipientEmail: req.RecipientEmail,
		OrderNumber:    req.OrderNumber.String(),
	}, nil
}

// resolveSender picks the From identity: senderEmail, then orders@senderDomain,
// then the configured default.
func (s *OrderConfirmationService) resolveSender(req *requests.OrderConfirmationRequest) email.Address {
	addr := email.Address{Email: req.SenderEmail, Name: req.SenderName}

	if addr.Email == "" {
		if req.SenderDomain != "" {
			addr.Email = "orders@" + req.SenderDomain
		} else {
			addr.Email = s.config.DefaultFromEmail
		}
	}
	if addr.Name == "" {
		addr.Name = s.config.DefaultFromName
	}

	return addr
}
