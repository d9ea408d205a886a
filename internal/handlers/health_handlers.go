package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cyphera/order-mailer/internal/types/responses"
)

// HealthTimestampLayout renders UTC instants as ISO-8601 with milliseconds.
const HealthTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Health godoc
// @Summary      Health check
// @Description  Reports liveness without contacting the email provider
// @Tags         health
// @Produce      json
// @Success      200  {object}  responses.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC().Format(HealthTimestampLayout),
	})
}
