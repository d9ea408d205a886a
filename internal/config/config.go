package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cyphera/order-mailer/internal/constants"
	"github.com/cyphera/order-mailer/internal/helpers"
)

// DefaultMaxBodyBytes accommodates base64 image content in the request body.
const DefaultMaxBodyBytes int64 = 50 << 20

// SecretGetter resolves a secret from an ARN env var with a direct env var fallback.
type SecretGetter interface {
	GetSecretString(ctx context.Context, secretArnEnvVar string, fallbackEnvVar string) (string, error)
}

// CORSConfig holds the CORS_* settings.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
}

// SESConfig holds the SES_* settings.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Config is the process configuration consumed by the composition roots.
type Config struct {
	Stage            string
	Port             string
	EmailProvider    string
	SendGridAPIKey   string
	ResendAPIKey     string
	SES              SESConfig
	DefaultFromEmail string
	DefaultFromName  string
	SanitizeHTML     bool
	MaxBodyBytes     int64
	CORS             CORSConfig
}

// IsProduction reports whether internal error details are hidden from callers.
func (c *Config) IsProduction() bool {
	return helpers.IsProduction(c.Stage)
}

// Load reads the configuration from the environment. Provider API keys are
// resolved through secrets so they may live in AWS Secrets Manager.
func Load(ctx context.Context, secrets SecretGetter) (*Config, error) {
	cfg := &Config{
		Stage:            getEnvWithDefault("STAGE", helpers.StageLocal),
		Port:             getEnvWithDefault("PORT", "5000"),
		EmailProvider:    strings.ToLower(getEnvWithDefault("EMAIL_PROVIDER", constants.SendGridProvider)),
		DefaultFromEmail: os.Getenv("DEFAULT_FROM_EMAIL"),
		DefaultFromName:  os.Getenv("DEFAULT_FROM_NAME"),
		SanitizeHTML:     os.Getenv("SANITIZE_HTML") == "true",
		MaxBodyBytes:     DefaultMaxBodyBytes,
		CORS:             loadCORS(),
	}

	if !helpers.IsValidStage(cfg.Stage) {
		return nil, fmt.Errorf("invalid STAGE '%s': must be one of %s, %s, %s",
			cfg.Stage, helpers.StageProd, helpers.StageDev, helpers.StageLocal)
	}

	if raw := os.Getenv("MAX_BODY_BYTES"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("invalid MAX_BODY_BYTES '%s': must be a positive integer", raw)
		}
		cfg.MaxBodyBytes = limit
	}

	var err error
	switch cfg.EmailProvider {
	case constants.SendGridProvider:
		cfg.SendGridAPIKey, err = secrets.GetSecretString(ctx, "SENDGRID_API_KEY_ARN", "SENDGRID_API_KEY")
	case constants.ResendProvider:
		cfg.ResendAPIKey, err = secrets.GetSecretString(ctx, "RESEND_API_KEY_ARN", "RESEND_API_KEY")
	case constants.SESProvider:
		cfg.SES = SESConfig{
			Region:          getEnvWithDefault("SES_REGION", os.Getenv("AWS_REGION")),
			AccessKeyID:     os.Getenv("SES_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("SES_SECRET_ACCESS_KEY"),
		}
	case constants.StdoutProvider:
	default:
		return nil, fmt.Errorf("invalid EMAIL_PROVIDER '%s': must be one of %s, %s, %s, %s",
			cfg.EmailProvider, constants.SendGridProvider, constants.ResendProvider, constants.SESProvider, constants.StdoutProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s API key: %w", cfg.EmailProvider, err)
	}

	return cfg, nil
}

func loadCORS() CORSConfig {
	return CORSConfig{
		AllowOrigins:     splitEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AllowMethods:     splitEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		AllowHeaders:     splitEnv("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Correlation-ID"}),
		ExposeHeaders:    splitEnv("CORS_EXPOSED_HEADERS", []string{"X-Correlation-ID"}),
		AllowCredentials: os.Getenv("CORS_ALLOW_CREDENTIALS") == "true",
	}
}

// splitEnv splits a comma separated env var and trims each entry.
func splitEnv(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
