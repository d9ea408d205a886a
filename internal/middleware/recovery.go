package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cyphera/order-mailer/internal/types/responses"
)

// HiddenErrorMessage replaces internal error details when running in production.
const HiddenErrorMessage = "An error occurred"

// InternalErrorMessage renders the detail for an unexpected failure, hiding it in production.
func InternalErrorMessage(err error, isProduction bool) string {
	if isProduction || err == nil {
		return HiddenErrorMessage
	}
	return err.Error()
}

// RecoveryMiddleware turns a panic into the 500 error response shape.
func RecoveryMiddleware(isProduction bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}

		LogWithCorrelationID(c.Request.Context()).Error("Recovered from panic",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Stack("stack"),
		)

		c.AbortWithStatusJSON(http.StatusInternalServerError, responses.InternalErrorResponse{
			Error:   "Internal server error",
			Message: InternalErrorMessage(err, isProduction),
		})
	})
}
