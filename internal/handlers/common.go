package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cyphera/order-mailer/internal/client/email"
	"github.com/cyphera/order-mailer/internal/middleware"
	"github.com/cyphera/order-mailer/internal/services"
	"github.com/cyphera/order-mailer/internal/types/responses"
)

// sendError logs the failure with the request's correlation ID and sends a JSON error response.
func sendError(c *gin.Context, statusCode int, message string, err error) {
	middleware.LogWithCorrelationID(c.Request.Context()).Warn(message,
		zap.Error(err),
		zap.Int("status", statusCode),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, responses.ErrorResponse{Error: message})
}

// handleSendError maps a failed send onto the client-input, provider-rejection
// and internal-error responses.
func handleSendError(c *gin.Context, err error, isProduction bool) {
	log := middleware.LogWithCorrelationID(c.Request.Context())

	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		sendError(c, http.StatusBadRequest, validationErr.Message, err)
		return
	}

	var providerErr *email.ProviderError
	if errors.As(err, &providerErr) {
		log.Error("Email provider rejected the message",
			zap.String("provider", providerErr.Provider),
			zap.Int("status", providerErr.StatusCode),
			zap.Int("error_count", len(providerErr.Errors)),
		)
		details := providerErr.Errors
		if details == nil {
			details = []json.RawMessage{}
		}
		c.JSON(providerStatus(providerErr.StatusCode), responses.ProviderErrorResponse{
			Error:   "Failed to send email",
			Details: details,
		})
		return
	}

	log.Error("Failed to send order confirmation", zap.Error(err))
	c.JSON(http.StatusInternalServerError, responses.InternalErrorResponse{
		Error:   "Internal server error",
		Message: middleware.InternalErrorMessage(err, isProduction),
	})
}

// providerStatus keeps the provider's status when it is a usable HTTP error code.
func providerStatus(code int) int {
	if code < http.StatusBadRequest || code > 599 {
		return http.StatusInternalServerError
	}
	return code
}
