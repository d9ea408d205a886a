// Package email defines the provider-neutral outbound message and the Sender
// capability every delivery backend implements.
package email

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/emersion/go-message/mail"
)

// Sender delivers a fully composed message through a transactional email provider.
type Sender interface {
	// Send makes exactly one delivery attempt.
	// A provider that refused the message returns a *ProviderError.
	Send(ctx context.Context, msg *Message) error

	// Name returns the provider name used in logs.
	Name() string
}

// Address is a mailbox with an optional display name.
type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// String formats the address for a From header. The display name is quoted,
// or RFC 2047 encoded when it is not ASCII, so names like "Acme, Inc." parse.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// Attachment is a file part of the message. Content is base64 encoded.
type Attachment struct {
	Content     string `json:"content"`
	Type        string `json:"type"`
	Filename    string `json:"filename"`
	Disposition string `json:"disposition"`
	ContentID   string `json:"content_id"`
}

// Message is a composed email ready for delivery.
type Message struct {
	To          string            `json:"to"`
	From        Address           `json:"from"`
	Subject     string            `json:"subject"`
	HTML        string            `json:"html"`
	ReplyTo     string            `json:"replyTo,omitempty"`
	Categories  []string          `json:"categories,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Attachments []Attachment      `json:"attachments"`
}

// ProviderError reports a send the provider refused with a structured error payload.
// Errors holds the provider's error entries exactly as received.
type ProviderError struct {
	Provider   string
	StatusCode int
	Errors     []json.RawMessage
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s rejected the message with status %d (%d errors)", e.Provider, e.StatusCode, len(e.Errors))
}
