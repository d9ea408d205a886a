package services

import (
	"regexp"

	"github.com/cyphera/order-mailer/internal/types/requests"
)

// ValidationCode identifies why a request was rejected.
type ValidationCode string

const (
	MissingField       ValidationCode = "MissingField"
	InvalidEmailFormat ValidationCode = "InvalidEmailFormat"
)

// emailPart excludes @ and whitespace. RE2's \s is ASCII only, so vertical tab
// and the Unicode spaces are listed explicitly.
const emailPart = `[^\s\v\p{Z}\x{FEFF}@]+`

// EmailRegex is deliberately permissive: one @, no whitespace, a dot in the domain.
var EmailRegex = regexp.MustCompile(`^` + emailPart + `@` + emailPart + `\.` + emailPart + `$`)

// ValidationError is a client input error. Message is safe to return verbatim.
type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateOrderConfirmation checks the required fields and the recipient address.
// Sender fields, the custom message and images are not validated.
func ValidateOrderConfirmation(req *requests.OrderConfirmationRequest) error {
	if req.RecipientEmail == "" || req.OrderNumber.IsZero() || req.FirstName == "" {
		return &ValidationError{
			Code:    MissingField,
			Message: "Missing required fields: recipientEmail, orderNumber, firstName",
		}
	}

	if !EmailRegex.MatchString(req.RecipientEmail) {
		return &ValidationError{
			Code:    InvalidEmailFormat,
			Message: "Invalid email format",
		}
	}

	return nil
}
