package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cyphera/order-mailer/internal/middleware"
	"github.com/cyphera/order-mailer/internal/services"
	"github.com/cyphera/order-mailer/internal/types/requests"
	"github.com/cyphera/order-mailer/internal/types/responses"
)

// OrderConfirmationSender is the service capability the handler depends on.
type OrderConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, req *requests.OrderConfirmationRequest) (*services.OrderConfirmationResult, error)
}

// OrderConfirmationHandler serves the send-order-confirmation endpoint.
type OrderConfirmationHandler struct {
	service      OrderConfirmationSender
	isProduction bool
}

func NewOrderConfirmationHandler(service OrderConfirmationSender, isProduction bool) *OrderConfirmationHandler {
	return &OrderConfirmationHandler{
		service:      service,
		isProduction: isProduction,
	}
}

// SendOrderConfirmation godoc
// @Summary      Send an order confirmation email
// @Description  Validates the order, composes the HTML email with inline images and sends it through the configured provider
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request  body      requests.OrderConfirmationRequest  true  "Order confirmation details"
// @Success      200      {object}  responses.OrderConfirmationResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      413      {object}  responses.ErrorResponse
// @Failure      422      {object}  responses.ProviderErrorResponse
// @Failure      500      {object}  responses.InternalErrorResponse
// @Router       /send-order-confirmation [post]
//
// Each call is exactly one send attempt.
func (h *OrderConfirmationHandler) SendOrderConfirmation(c *gin.Context) {
	var req requests.OrderConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			sendError(c, http.StatusRequestEntityTooLarge, "Request body too large", err)
			return
		case errors.Is(err, io.EOF):
			// An empty body is an empty order; validation reports the missing fields.
		default:
			sendError(c, http.StatusBadRequest, "Invalid JSON body", err)
			return
		}
	}

	result, err := h.service.SendOrderConfirmation(c.Request.Context(), &req)
	if err != nil {
		handleSendError(c, err, h.isProduction)
		return
	}

	middleware.LogWithCorrelationID(c.Request.Context()).Info("Order confirmation sent",
		zap.String("order_number", result.OrderNumber),
	)

	c.JSON(http.StatusOK, responses.OrderConfirmationResponse{
		Success:        true,
		Message:        "Order confirmation email sent successfully",
		RecipientEmail: result.RecipientEmail,
		OrderNumber:    result.OrderNumber,
	})
}
