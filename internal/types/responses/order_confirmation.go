package responses

// OrderConfirmationResponse acknowledges an accepted order confirmation email
type OrderConfirmationResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	RecipientEmail string `json:"recipientEmail"`
	OrderNumber    string `json:"orderNumber"`
}
