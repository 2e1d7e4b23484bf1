package security

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/edubloom-ai/internal/errors"
)

// SecurityConfig holds transport guard settings
type SecurityConfig struct {
	MaxUploadBytes int64         `json:"max_upload_bytes" yaml:"max_upload_bytes"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	EnableHSTS     bool          `json:"enable_hsts" yaml:"enable_hsts"`
	// CSPExemptPrefixes lists path prefixes served without the API CSP,
	// such as the Swagger UI which needs inline scripts.
	CSPExemptPrefixes []string `json:"csp_exempt_prefixes" yaml:"csp_exempt_prefixes"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxUploadBytes:    10 << 20,
		RequestTimeout:    30 * time.Second,
		CSPExemptPrefixes: []string{"/swagger"},
	}
}

// SecurityMiddleware bundles the request guards
type SecurityMiddleware struct {
	config SecurityConfig
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{config: config}
}

// Config returns the settings the middleware was built with.
func (sm *SecurityMiddleware) Config() SecurityConfig {
	return sm.config
}

// LimitBodySize rejects bodies whose declared length exceeds the limit and
// caps the rest with http.MaxBytesReader, so chunked uploads cannot exceed
// it either.
func (sm *SecurityMiddleware) LimitBodySize(c *gin.Context) {
	limit := sm.config.MaxUploadBytes
	if limit <= 0 {
		c.Next()
		return
	}

	if c.Request.ContentLength > limit {
		apperrors.Respond(c, apperrors.NewPayloadTooLargeError(limit))
		return
	}

	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
	c.Next()
}

// RequestTimeout enforces request timeout
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)

	// Set timeout header for client
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
		apperrors.Respond(c, apperrors.NewTimeoutError("Request deadline exceeded", ctx.Err()))
	}
}
