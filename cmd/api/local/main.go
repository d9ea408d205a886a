//go:build !lambda
// +build !lambda

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cyphera/order-mailer/internal/logger"
	"github.com/cyphera/order-mailer/internal/server"
)

// @title           Order Mailer API
// @version         1.0
// @description     Sends order confirmation emails with inline images through a transactional email provider.
// @BasePath        /api
func main() {
	if err := godotenv.Load(); err != nil {
		// Missing .env is fine when variables are set directly in the environment.
		log.Printf("Warning: .env file not found: %v\n", err)
	}

	router, cfg, err := server.Bootstrap(context.Background())
	if err != nil {
		log.Fatalf("Failed to configure server: %v", err)
	}
	defer logger.Sync()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second, // Prevent Slowloris attacks
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("stage", cfg.Stage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// In-flight provider calls get a deadline to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
