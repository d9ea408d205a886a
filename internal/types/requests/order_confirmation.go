package requests

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// OrderConfirmationRequest is the body of POST /api/send-order-confirmation
type OrderConfirmationRequest struct {
	RecipientEmail string            `json:"recipientEmail"`
	RecipientName  string            `json:"recipientName"`
	OrderNumber    OrderNumber       `json:"orderNumber"`
	FirstName      string            `json:"firstName"`
	LastName       string            `json:"lastName"`
	SenderName     string            `json:"senderName"`
	SenderEmail    string            `json:"senderEmail"`
	SenderDomain   string            `json:"senderDomain"`
	CustomMessage  string            `json:"customMessage"`
	Images         []ImageAttachment `json:"images"`
}

// ImageAttachment is an image embedded inline in the confirmation email.
// Content is base64 encoded.
type ImageAttachment struct {
	Content  string `json:"content"`
	Type     string `json:"type"`
	Filename string `json:"filename"`
}

// OrderNumber accepts either a JSON string or a JSON number.
// Numbers keep their literal form, so 1007 and "1007" render the same.
// A numeric zero decodes as absent; any non-empty string, "0" included, is present.
type OrderNumber string

// UnmarshalJSON implements json.Unmarshaler.
func (n *OrderNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "orderNumber")
		}
		*n = OrderNumber(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return errors.Errorf("orderNumber must be a string or a number, got %s", data)
	}
	if f, err := num.Float64(); err == nil && f == 0 {
		*n = ""
		return nil
	}
	*n = OrderNumber(num.String())
	return nil
}

// MarshalJSON renders the order number as a JSON string.
func (n OrderNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// String returns the order number as sent by the client.
func (n OrderNumber) String() string {
	return string(n)
}

// IsZero reports whether the order number is absent.
func (n OrderNumber) IsZero() bool {
	return n == ""
}
