package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cyphera/order-mailer/internal/logger"
	"github.com/cyphera/order-mailer/internal/types/responses"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	previous := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = previous })
	return logs
}

func TestBodyLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(BodyLimitMiddleware(8))
	router.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, string(body))
	})

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "within limit", body: "12345678", wantCode: http.StatusOK},
		{name: "over limit", body: "123456789", wantCode: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observeLogs(t)

	tests := []struct {
		name         string
		isProduction bool
		wantMessage  string
	}{
		{name: "development exposes the panic", isProduction: false, wantMessage: "template exploded"},
		{name: "production hides the panic", isProduction: true, wantMessage: HiddenErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RecoveryMiddleware(tt.isProduction))
			router.GET("/boom", func(c *gin.Context) {
				panic(errors.New("template exploded"))
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

			require.Equal(t, http.StatusInternalServerError, w.Code)
			var body responses.InternalErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Internal server error", body.Error)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestRequestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeLogs(t)

	router := gin.New()
	router.Use(CorrelationIDMiddleware(), RequestLoggingMiddleware())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))

	entries := logs.FilterMessage("Request completed").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "/bad", entries[1].ContextMap()["path"])
	assert.NotEmpty(t, entries[1].ContextMap()["correlation_id"])
}

func TestInternalErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", InternalErrorMessage(errors.New("boom"), false))
	assert.Equal(t, HiddenErrorMessage, InternalErrorMessage(errors.New("boom"), true))
	assert.Equal(t, HiddenErrorMessage, InternalErrorMessage(nil, false))
}
