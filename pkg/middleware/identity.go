package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "client_identity"

// ClientIdentity resolves the rate-limit identity once per request. With
// trustForwarded the first X-Forwarded-For entry wins (the service runs
// behind a reverse proxy); otherwise the direct peer address is used.
func ClientIdentity(trustForwarded bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, clientIdentity(c.Request, trustForwarded))
		c.Next()
	}
}

// Identity returns the identity set by ClientIdentity, resolving it from the
// peer address when the middleware is not installed.
func Identity(c *gin.Context) string {
	if v := c.GetString(identityKey); v != "" {
		return v
	}
	return clientIdentity(c.Request, false)
}

func clientIdentity(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return "unknown"
}
