package middleware

import (
	"net/http"

	"github.com/Conceptual-Machines/groove-api/internal/config"
	"github.com/Conceptual-Machines/groove-api/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"

	headerUserID    = "X-User-ID"
	headerUserEmail = "X-User-Email"
	headerUserRole  = "X-User-Role"

	anonymousUser = "anonymous"
)

// Auth picks the authentication middleware for cfg.AuthMode.
// Unknown modes fall back to NoAuth with a warning.
func Auth(cfg *config.Config) gin.HandlerFunc {
	switch cfg.AuthMode {
	case config.AuthModeGateway:
		return GatewayAuth()
	case config.AuthModeJWT:
		return JWTAuth(cfg.JWTSecret)
	case config.AuthModeNone, "":
		return NoAuth()
	default:
		logger.Warn("Unknown auth mode, requests are not authenticated", logger.Fields{
			"auth_mode": cfg.AuthMode,
		})
		return NoAuth()
	}
}

// OptionalAuth attaches the caller when the mode can identify one without
// rejecting anonymous requests. Used on public routes.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	if cfg.AuthMode == config.AuthModeGateway {
		return OptionalGatewayAuth()
	}
	return func(c *gin.Context) { c.Next() }
}

// GatewayAuth trusts the X-User-* headers set by the fronting gateway,
// which validates credentials and rate limits renders. Only safe behind
// network isolation.
func GatewayAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gatewayUser(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Missing " + headerUserID + " header from gateway",
			})
			return
		}
		c.Next()
	}
}

// OptionalGatewayAuth reads gateway headers when present
func OptionalGatewayAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		gatewayUser(c)
		c.Next()
	}
}

func gatewayUser(c *gin.Context) bool {
	id := c.GetHeader(headerUserID)
	if id == "" {
		return false
	}
	setUser(c, id, c.GetHeader(headerUserEmail), c.GetHeader(headerUserRole))
	return true
}

// NoAuth lets every request through as the anonymous user
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		setUser(c, anonymousUser, "", "")
		c.Next()
	}
}

func setUser(c *gin.Context, id, email, role string) {
	c.Set(ctxUserID, id)
	if email != "" {
		c.Set(ctxUserEmail, email)
	}
	if role != "" {
		c.Set(ctxUserRole, role)
	}
}

// UserID returns the authenticated user's id
func UserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// UserEmail returns the authenticated user's email, when known
func UserEmail(c *gin.Context) (string, bool) {
	return c.GetString(ctxUserEmail), c.GetString(ctxUserEmail) != ""
}

// UserRole returns the authenticated user's role, when known
func UserRole(c *gin.Context) (string, bool) {
	return c.GetString(ctxUserRole), c.GetString(ctxUserRole) != ""
}
