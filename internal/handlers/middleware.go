package handlers

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"accessibledn/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sessionTokenKey is the Gin context key under which requireSession stores
// the verified bearer token.
const sessionTokenKey = "sessionToken"

// requestID tags every request with an id for log correlation.
func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("requestID", id)
	c.Header("X-Request-ID", id)
	c.Next()
}

// requireAuthEnabled gates the whole userbase surface behind the feature
// flag. The core itself never checks the flag; this boundary does.
func (h *Handler) requireAuthEnabled(c *gin.Context) {
	if !h.authEnabled {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "authentication is not enabled",
		})
		return
	}
	c.Next()
}

// rateLimit enforces the per-client fixed window. Rejections carry
// remaining-quota and reset-time headers for client backoff.
func (h *Handler) rateLimit(c *gin.Context) {
	id := clientIP(c)
	if !h.limiter.Allow(id) {
		c.Header("X-RateLimit-Remaining", strconv.Itoa(h.limiter.Remaining(id)))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(h.limiter.ResetTime(id).UnixMilli(), 10))
		if h.log != nil {
			h.log.Infow("userbase_rate_limited", "client", id)
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "too many requests",
		})
		return
	}
	c.Next()
}

// requireSession gates authenticated routes: it extracts the bearer token,
// verifies it, and stores it in the Gin context for the handler. Every
// failure gets the same uniform 401 body.
func (h *Handler) requireSession(c *gin.Context) {
	token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": auth.ErrInvalidToken.Error(),
		})
		return
	}
	if _, err := h.services.ParseToken(token); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": auth.ErrInvalidToken.Error(),
		})
		return
	}

	// store in Gin context
	c.Set(sessionTokenKey, token)
	c.Next()
}

// clientIP derives the rate-limit identifier from forwarded-IP headers,
// falling back to the socket address.
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil || host == "" {
		return "unknown"
	}
	return host
}
