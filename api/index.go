// Package handler is the Vercel serverless entrypoint. Vercel routes every
// /api/* request to Handler.
package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cyphera/order-mailer/internal/logger"
	"github.com/cyphera/order-mailer/internal/server"
	"github.com/cyphera/order-mailer/internal/types/responses"
)

var (
	once      sync.Once
	router    *gin.Engine
	bootError error
)

func getRouter() (*gin.Engine, error) {
	once.Do(func() {
		router, _, bootError = server.Bootstrap(context.Background())
		if bootError != nil {
			log.Printf("Failed to configure server: %v", bootError)
		}
	})
	return router, bootError
}

// Handler is the entry point for Vercel serverless functions
func Handler(w http.ResponseWriter, r *http.Request) {
	h, err := getRouter()
	if err != nil {
		logger.Error("Rejecting request, server is not configured", zap.Error(err))
		writeBootError(w)
		return
	}
	h.ServeHTTP(w, r)
}

func writeBootError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	body, _ := json.Marshal(responses.InternalErrorResponse{
		Error:   "Internal server error",
		Message: "An error occurred",
	})
	_, _ = w.Write(body)
}
