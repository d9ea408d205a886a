package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cyphera/order-mailer/internal/client/email"
	"github.com/cyphera/order-mailer/internal/config"
	"github.com/cyphera/order-mailer/internal/logger"
	"github.com/cyphera/order-mailer/internal/middleware"
	"github.com/cyphera/order-mailer/internal/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		Stage:            "local",
		Port:             "5000",
		EmailProvider:    "stdout",
		DefaultFromEmail: "noreply@shop.example",
		MaxBodyBytes:     config.DefaultMaxBodyBytes,
		CORS: config.CORSConfig{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type"},
			ExposeHeaders: []string{middleware.CorrelationIDHeader},
		},
	}
}

func TestNewRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sender := mocks.NewMockSenderForTest(t)
	sender.EXPECT().Name().Return("mock").AnyTimes()
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	router := NewRouter(testConfig(), sender)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{name: "health", method: http.MethodGet, path: "/api/health", wantCode: http.StatusOK},
		{
			name:     "send order confirmation",
			method:   http.MethodPost,
			path:     "/api/send-order-confirmation",
			body:     `{"recipientEmail":"jane@example.com","orderNumber":"A-1","firstName":"Jane"}`,
			wantCode: http.StatusOK,
		},
		{name: "unknown route", method: http.MethodGet, path: "/health", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.CorrelationIDHeader))
		})
	}
}

func TestNewRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantHeader string
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "https://shop.example", wantHeader: "*"},
		{name: "listed origin", origins: []string{"https://shop.example"}, origin: "https://shop.example", wantHeader: "https://shop.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.CORS.AllowOrigins = tt.origins
			router := NewRouter(cfg, mocks.NewMockSenderForTest(t))

			req := httptest.NewRequest(http.MethodOptions, "/api/send-order-confirmation", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestNewSender(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
		wantErr  bool
	}{
		{provider: "sendgrid", wantName: "sendgrid"},
		{provider: "resend", wantName: "resend"},
		{provider: "ses", wantName: "ses"},
		{provider: "stdout", wantName: "stdout"},
		{provider: "pigeon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := testConfig()
			cfg.EmailProvider = tt.provider
			cfg.SendGridAPIKey = "SG.test"
			cfg.ResendAPIKey = "re_test"
			cfg.SES = config.SESConfig{Region: "us-east-1", AccessKeyID: "AKIDTEST", SecretAccessKey: "secret"}

			sender, err := NewSender(context.Background(), cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			var _ email.Sender = sender
			assert.Equal(t, tt.wantName, sender.Name())
		})
	}
}

type recordingSecrets struct {
	loggerLive bool
}

func (r *recordingSecrets) GetSecretString(_ context.Context, _ string, _ string) (string, error) {
	r.loggerLive = logger.Log.Core().Enabled(zapcore.WarnLevel)
	logger.Warn("Secret ARN not set, using env var")
	return "SG.test", nil
}

func TestBootstrap_LoggerReadyBeforeSecrets(t *testing.T) {
	gin.SetMode(gin.TestMode)

	previous := logger.Log
	logger.Log = zap.NewNop()
	t.Cleanup(func() { logger.Log = previous })

	t.Setenv("STAGE", "local")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("EMAIL_PROVIDER", "sendgrid")
	t.Setenv("MAX_BODY_BYTES", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	secrets := &recordingSecrets{}
	router, cfg, err := bootstrap(context.Background(), secrets)
	require.NoError(t, err)
	require.NotNil(t, router)

	assert.True(t, secrets.loggerLive)
	assert.Equal(t, "SG.test", cfg.SendGridAPIKey)
}

func TestNewRouter_ServesAPIDocs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(testConfig(), mocks.NewMockSenderForTest(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Swagger  string                     `json:"swagger"`
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "/api", doc.BasePath)
	assert.Contains(t, doc.Paths, "/health")
	assert.Contains(t, doc.Paths, "/send-order-confirmation")
}
