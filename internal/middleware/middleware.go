package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"goldcinema/internal/logger"
	"goldcinema/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Ctx key and helpers for the authenticated identity
// Using unexported type to avoid collisions

type ctxKey string

const identityKey ctxKey = "identity"

func ContextWithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

// CORS handles cross-origin requests from the web frontend
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// RequestID assigns each request a correlation id, exposed in the response
// header and the request context for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = logger.NewRequestID()
		}

		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), "request_id", requestID)) //nolint:staticcheck

		c.Next()
	}
}

// Logger emits a structured access log entry per request
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}

		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			slog.Error("Request completed with error", logFields...)
		} else {
			slog.Debug("Request completed", logFields...)
		}
	}
}

// Recovery recovers from handler panics with detailed logging
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
	})
}

// OptionalAuth decodes a Bearer JWT when present so bookings can be tied to
// an account. Anonymous checkout stays allowed: a missing or invalid token
// is logged and the request continues unauthenticated.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			slog.Warn("Ignoring invalid bearer token", "error", err)
			c.Next()
			return
		}

		identity := models.Identity{}
		if sub, ok := claims["sub"].(string); ok {
			identity.ID = sub
		}
		if name, ok := claims["name"].(string); ok {
			identity.Name = name
		}
		if email, ok := claims["email"].(string); ok {
			identity.Email = email
		}

		if identity.ID != "" {
			c.Request = c.Request.WithContext(ContextWithIdentity(c.Request.Context(), identity))
		}

		c.Next()
	}
}
