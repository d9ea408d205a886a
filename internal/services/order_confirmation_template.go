package services

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/cyphera/order-mailer/internal/client/email"
	"github.com/cyphera/order-mailer/internal/constants"
	"github.com/cyphera/order-mailer/internal/types/requests"
)

// orderConfirmationTemplate is executed with text/template, so interpolated
// fields are written as-is. customMessage may carry HTML.
const orderConfirmationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Order Confirmation #{{.OrderNumber}}</title>
</head>
<body style="margin: 0; padding: 0; background-color: #f4f4f4; font-family: Arial, sans-serif; line-height: 1.6; color: #333333;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff;">
        <div style="background-color: #2c3e50; color: #ffffff; padding: 30px 20px; text-align: center;">
            <h1 style="margin: 0; font-size: 24px;">{{.SenderName}}</h1>
            <p style="margin: 10px 0 0; font-size: 16px;">Order Confirmation #{{.OrderNumber}}</p>
        </div>
        <div style="padding: 30px 20px;">
            <p style="font-size: 16px;">Hi {{.FirstName}},</p>
            <div style="font-size: 15px; margin: 20px 0;">{{.CustomMessage}}</div>
{{- if .ImageTags}}
            <div class="images-container" style="margin: 20px 0; text-align: center;">{{.ImageTags}}</div>
{{- end}}
        </div>
        <div style="background-color: #f8f9fa; padding: 20px; text-align: center; font-size: 12px; color: #666666;">
            <p style="margin: 0 0 8px;">Questions about your order? Contact us at <a href="mailto:{{.SenderEmail}}" style="color: #2c3e50;">{{.SenderEmail}}</a></p>
            <p style="margin: 0;">&copy; {{.Year}} {{.SenderName}}. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
`

var orderConfirmationTmpl = template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate))

// orderConfirmationData is the data passed to orderConfirmationTemplate
type orderConfirmationData struct {
	SenderName    string
	SenderEmail   string
	OrderNumber   string
	FirstName     string
	CustomMessage string
	ImageTags     string
	Year          int
}

// ComposedEmail is the rendered document and its inline parts.
type ComposedEmail struct {
	Subject     string
	HTML        string
	Attachments []email.Attachment
}

// ImageContentID returns the content id of the image at the given 0-based index.
func ImageContentID(index int) string {
	return fmt.Sprintf("image%d", index+1)
}

// OrderConfirmationSubject builds the subject line.
func OrderConfirmationSubject(orderNumber, recipientName string) string {
	return fmt.Sprintf("Order Confirmation #%s - %s", orderNumber, recipientName)
}

// composeOrderConfirmation renders the HTML body and the inline attachments for req.
// senderName and senderEmail are the resolved sender identity.
func composeOrderConfirmation(req *requests.OrderConfirmationRequest, senderName, senderEmail, customMessage string, year int) (*ComposedEmail, error) {
	attachments := make([]email.Attachment, 0, len(req.Images))
	var tags strings.Builder

	for i, img := range req.Images {
		contentID := ImageContentID(i)
		attachments = append(attachments, email.Attachment{
			Content:     img.Content,
			Type:        img.Type,
			Filename:    img.Filename,
			Disposition: constants.InlineDisposition,
			ContentID:   contentID,
		})
		fmt.Fprintf(&tags, `<img src="cid:%s" alt="%s" style="max-width: 100%%; height: auto; margin: 10px 0; display: block;">`, contentID, img.Filename)
	}

	data := orderConfirmationData{
		SenderName:    senderName,
		SenderEmail:   senderEmail,
		OrderNumber:   req.OrderNumber.String(),
		FirstName:     req.FirstName,
		CustomMessage: customMessage,
		ImageTags:     tags.String(),
		Year:          year,
	}

	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "failed to render order confirmation template")
	}

	return &ComposedEmail{
		Subject:     OrderConfirmationSubject(req.OrderNumber.String(), req.RecipientName),
		HTML:        buf.String(),
		Attachments: attachments,
	}, nil
}
