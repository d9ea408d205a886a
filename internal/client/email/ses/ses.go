// Package ses implements email.Sender with AWS SES v2.
// Messages are always sent as raw MIME so inline images keep their Content-ID.
package ses

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"
	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cyphera/order-mailer/internal/client/email"
	"github.com/cyphera/order-mailer/internal/constants"
)

// Config holds the configuration for creating a Sender.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// SendEmailAPI is the interface for the SES v2 SendEmail operation.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender sends messages via SES.
type Sender struct {
	client SendEmailAPI
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Sender from the default AWS configuration chain.
// Static credentials are used when both keys are set.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Sender, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "ses: failed to load AWS config")
	}

	// one attempt per order confirmation
	client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		o.Retryer = aws.NopRetryer{}
	})

	return NewWithClient(client, logger), nil
}

// NewWithClient creates a Sender with a custom client, used for testing.
func NewWithClient(client SendEmailAPI, logger *zap.Logger) *Sender {
	return &Sender{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Name returns the provider name.
func (s *Sender) Name() string {
	return constants.SESProvider
}

// Send implements email.Sender.
func (s *Sender) Send(ctx context.Context, msg *email.Message) error {
	raw, err := buildRawMessage(msg, s.now())
	if err != nil {
		return err
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From.String()),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}
	for _, category := range msg.Categories {
		input.EmailTags = append(input.EmailTags, types.MessageTag{
			Name:  aws.String("category"),
			Value: aws.String(category),
		})
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		if perr := toProviderError(err); perr != nil {
			s.logger.Warn("ses rejected message",
				zap.Int("status", perr.StatusCode),
				zap.String("to", msg.To),
				zap.Error(err))
			return perr
		}
		return errors.Wrap(err, "ses: failed to send email")
	}

	s.logger.Info("ses accepted message",
		zap.String("message_id", aws.ToString(out.MessageId)),
		zap.String("to", msg.To))
	return nil
}

// toProviderError converts an SES API error response into an email.ProviderError.
// It returns nil for errors that never reached the API.
func toProviderError(err error) *email.ProviderError {
	var respErr *awshttp.ResponseError
	if !errors.As(err, &respErr) {
		return nil
	}

	detail := map[string]string{"message": err.Error()}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		detail = map[string]string{
			"code":    apiErr.ErrorCode(),
			"message": apiErr.ErrorMessage(),
		}
	}

	raw, marshalErr := json.Marshal(detail)
	if marshalErr != nil {
		return nil
	}

	return &email.ProviderError{
		Provider:   constants.SESProvider,
		StatusCode: respErr.HTTPStatusCode(),
		Errors:     []json.RawMessage{raw},
	}
}

// buildRawMessage writes msg as multipart/related: the HTML part followed by
// one part per attachment, each carrying its Content-ID.
func buildRawMessage(msg *email.Message, now time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{{Name: msg.From.Name, Address: msg.From.Email}})
	h.SetAddressList("To", []*mail.Address{{Address: msg.To}})
	if msg.ReplyTo != "" {
		h.SetAddressList("Reply-To", []*mail.Address{{Address: msg.ReplyTo}})
	}
	h.SetSubject(msg.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, errors.Wrap(err, "ses: failed to generate message id")
	}
	for key, value := range msg.Headers {
		h.Set(key, value)
	}
	h.SetContentType("multipart/related", map[string]string{"type": "text/html"})

	var buf bytes.Buffer
	w, err := message.CreateWriter(&buf, h.Header)
	if err != nil {
		return nil, errors.Wrap(err, "ses: failed to create message writer")
	}

	var htmlHeader message.Header
	htmlHeader.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	htmlHeader.Set("Content-Transfer-Encoding", "quoted-printable")
	if err := writePart(w, htmlHeader, []byte(msg.HTML)); err != nil {
		return nil, errors.Wrap(err, "ses: failed to write html part")
	}

	for _, att := range msg.Attachments {
		content, err := base64.StdEncoding.DecodeString(att.Content)
		if err != nil {
			return nil, errors.Wrapf(err, "ses: attachment %q is not valid base64", att.Filename)
		}

		var partHeader message.Header
		partHeader.SetContentType(att.Type, map[string]string{"name": att.Filename})
		partHeader.SetContentDisposition(att.Disposition, map[string]string{"filename": att.Filename})
		partHeader.Set("Content-Transfer-Encoding", "base64")
		if att.ContentID != "" {
			partHeader.Set("Content-ID", fmt.Sprintf("<%s>", att.ContentID))
		}
		if err := writePart(w, partHeader, content); err != nil {
			return nil, errors.Wrapf(err, "ses: failed to write attachment %q", att.Filename)
		}
	}

	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "ses: failed to close message")
	}
	return buf.Bytes(), nil
}

func writePart(w *message.Writer, header message.Header, body []byte) error {
	pw, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(pw, bytes.NewReader(body)); err != nil {
		return err
	}
	return pw.Close()
}
