package security

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// apiCSPPolicy suits a JSON API: nothing may be loaded or framed.
const apiCSPPolicy = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"

// SecurityHeaders adds security headers to all responses
func (sm *SecurityMiddleware) SecurityHeaders(c *gin.Context) {
	// X-Frame-Options: Prevent clickjacking
	c.Header("X-Frame-Options", "DENY")

	// X-Content-Type-Options: Prevent MIME sniffing
	c.Header("X-Content-Type-Options", "nosniff")

	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

	if sm.config.EnableHSTS {
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}

	if !sm.cspExempt(c.Request.URL.Path) {
		c.Header("Content-Security-Policy", apiCSPPolicy)
	}

	c.Next()
}

func (sm *SecurityMiddleware) cspExempt(path string) bool {
	for _, prefix := range sm.config.CSPExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
