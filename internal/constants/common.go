package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment = "prod"

	// Email providers
	SendGridProvider = "sendgrid"
	ResendProvider   = "resend"
	SESProvider      = "ses"
	StdoutProvider   = "stdout"

	// Outbound message metadata
	OrderConfirmationCategory = "order-confirmation"
	EntityRefIDHeader         = "X-Entity-Ref-ID"
	OrderNumberHeader         = "X-Order-Number"

	// Attachment dispositions
	InlineDisposition = "inline"
)
