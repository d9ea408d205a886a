package server

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/cyphera/order-mailer/docs"

	awsclient "github.com/cyphera/order-mailer/internal/client/aws"
	"github.com/cyphera/order-mailer/internal/client/email"
	"github.com/cyphera/order-mailer/internal/client/email/resend"
	"github.com/cyphera/order-mailer/internal/client/email/sendgrid"
	"github.com/cyphera/order-mailer/internal/client/email/ses"
	"github.com/cyphera/order-mailer/internal/client/email/stdout"
	"github.com/cyphera/order-mailer/internal/config"
	"github.com/cyphera/order-mailer/internal/constants"
	"github.com/cyphera/order-mailer/internal/handlers"
	"github.com/cyphera/order-mailer/internal/logger"
	"github.com/cyphera/order-mailer/internal/middleware"
	"github.com/cyphera/order-mailer/internal/services"
)

// Bootstrap loads configuration, initializes the logger and builds the router.
// Every entrypoint (local server, Lambda, Vercel) goes through it.
func Bootstrap(ctx context.Context) (*gin.Engine, *config.Config, error) {
	secrets, err := awsclient.NewSecretsManagerClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	return bootstrap(ctx, secrets)
}

func bootstrap(ctx context.Context, secrets config.SecretGetter) (*gin.Engine, *config.Config, error) {
	// Secret lookups log their fallbacks, so the logger must be live before Load.
	logger.InitLogger(os.Getenv("STAGE"))

	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		logger.Error("Failed to load configuration", zap.Error(err))
		return nil, nil, err
	}

	if cfg.Stage != os.Getenv("STAGE") {
		logger.InitLogger(cfg.Stage)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	sender, err := NewSender(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Order mailer configured",
		zap.String("stage", cfg.Stage),
		zap.String("provider", sender.Name()),
		zap.Int64("max_body_bytes", cfg.MaxBodyBytes),
	)

	return NewRouter(cfg, sender), cfg, nil
}

// NewSender builds the email provider selected by EMAIL_PROVIDER.
func NewSender(ctx context.Context, cfg *config.Config) (email.Sender, error) {
	log := logger.With(zap.String("provider", cfg.EmailProvider))

	switch cfg.EmailProvider {
	case constants.SendGridProvider:
		return sendgrid.New(cfg.SendGridAPIKey, log), nil
	case constants.ResendProvider:
		return resend.New(cfg.ResendAPIKey, log), nil
	case constants.SESProvider:
		return ses.New(ctx, ses.Config{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
		}, log)
	case constants.StdoutProvider:
		return stdout.New(log), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.EmailProvider)
	}
}

// NewRouter creates a gin engine with the middleware stack and routes installed.
func NewRouter(cfg *config.Config, sender email.Sender) *gin.Engine {
	router := gin.New()
	InitializeRoutes(router, cfg, sender)
	return router
}

func InitializeRoutes(router *gin.Engine, cfg *config.Config, sender email.Sender) {
	router.Use(
		middleware.RecoveryMiddleware(cfg.IsProduction()),
		middleware.CorrelationIDMiddleware(),
		middleware.RequestLoggingMiddleware(),
		configureCORS(cfg.CORS),
		middleware.BodyLimitMiddleware(cfg.MaxBodyBytes),
	)

	orderConfirmationService := services.NewOrderConfirmationService(sender, services.OrderConfirmationConfig{
		DefaultFromEmail: cfg.DefaultFromEmail,
		DefaultFromName:  cfg.DefaultFromName,
		SanitizeHTML:     cfg.SanitizeHTML,
	}, logger.With(zap.String("service", "order_confirmation")))

	orderConfirmationHandler := handlers.NewOrderConfirmationHandler(orderConfirmationService, cfg.IsProduction())
	healthHandler := handlers.NewHealthHandler()

	api := router.Group("/api")
	{
		api.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		api.GET("/health", healthHandler.Health)
		api.POST("/send-order-confirmation", orderConfirmationHandler.SendOrderConfirmation)
	}
}

// configureCORS returns a configured CORS middleware
func configureCORS(corsCfg config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	corsConfig.AllowAllOrigins = len(corsCfg.AllowOrigins) == 0
	for _, origin := range corsCfg.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowAllOrigins = true
			break
		}
	}
	if !corsConfig.AllowAllOrigins {
		corsConfig.AllowOrigins = corsCfg.AllowOrigins
	}

	corsConfig.AllowMethods = corsCfg.AllowMethods
	corsConfig.AllowHeaders = corsCfg.AllowHeaders
	corsConfig.ExposeHeaders = corsCfg.ExposeHeaders
	corsConfig.AllowCredentials = corsCfg.AllowCredentials

	return cors.New(corsConfig)
}
