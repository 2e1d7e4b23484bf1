package security

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ZanzyTHEbar/edubloom-ai/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestDefaultSecurityConfig(t *testing.T) {
	config := DefaultSecurityConfig()

	assert.Equal(t, int64(10*1024*1024), config.MaxUploadBytes)
	assert.Equal(t, 30*time.Second, config.RequestTimeout)
	assert.False(t, config.EnableHSTS)
	assert.Contains(t, config.CSPExemptPrefixes, "/swagger")
}

func setupRouter(config SecurityConfig) *gin.Engine {
	sm := NewSecurityMiddleware(config)
	router := gin.New()
	router.Use(apperrors.ErrorHandler())
	router.Use(sm.SecurityHeaders, sm.RequestTimeout, sm.LimitBodySize)

	router.POST("/upload", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"bytes": len(data)})
	})
	router.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	router.GET("/swagger/index.html", func(c *gin.Context) {
		c.String(http.StatusOK, "ui")
	})
	return router
}

func TestLimitBodySize(t *testing.T) {
	config := DefaultSecurityConfig()
	config.MaxUploadBytes = 16
	router := setupRouter(config)

	tests := []struct {
		name          string
		body          string
		hideLength    bool
		expectedCode  int
		expectedBytes int
	}{
		{name: "within limit", body: "0123456789", expectedCode: http.StatusOK, expectedBytes: 10},
		{name: "exactly at limit", body: strings.Repeat("x", 16), expectedCode: http.StatusOK, expectedBytes: 16},
		{name: "declared length over limit", body: strings.Repeat("x", 17), expectedCode: http.StatusRequestEntityTooLarge},
		{name: "undeclared length over limit", body: strings.Repeat("x", 64), hideLength: true, expectedCode: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(tt.body))
			if tt.hideLength {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				assert.JSONEq(t, `{"bytes":`+jsonInt(tt.expectedBytes)+`}`, w.Body.String())
				return
			}

			var body apperrors.Body
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "PAYLOAD_TOO_LARGE", body.Code)
		})
	}
}

func jsonInt(n int) string {
	raw, _ := json.Marshal(n)
	return string(raw)
}

func TestRequestTimeout(t *testing.T) {
	config := DefaultSecurityConfig()
	config.RequestTimeout = 20 * time.Millisecond
	router := setupRouter(config)

	req := httptest.NewRequest(http.MethodGet, "/slow", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-Timeout"))
	assert.Contains(t, w.Body.String(), "TIMEOUT_ERROR")
}

func TestRequestTimeoutSetsDeadline(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())
	router := gin.New()
	router.Use(sm.RequestTimeout)

	var deadline time.Time
	var ok bool
	router.GET("/", func(c *gin.Context) {
		deadline, ok = c.Request.Context().Deadline()
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background()))

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), deadline, 2*time.Second)
	assert.Equal(t, "30", w.Header().Get("X-Timeout"))
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name      string
		hsts      bool
		path      string
		expectCSP bool
	}{
		{"api path", false, "/upload", true},
		{"swagger ui", false, "/swagger/index.html", false},
		{"hsts enabled", true, "/upload", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultSecurityConfig()
			config.EnableHSTS = tt.hsts
			router := setupRouter(config)

			method := http.MethodPost
			if strings.HasPrefix(tt.path, "/swagger") {
				method = http.MethodGet
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, tt.path, strings.NewReader("{}")))

			assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
			assert.Equal(t, tt.expectCSP, w.Header().Get("Content-Security-Policy") != "")
			assert.Equal(t, tt.hsts, w.Header().Get("Strict-Transport-Security") != "")
		})
	}
}
