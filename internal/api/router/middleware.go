package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quackapp/staffing-be/internal/api/domain"
	"github.com/quackapp/staffing-be/internal/api/handler"
)

// LoggerMiddleware logs HTTP requests with slog
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info("HTTP Request",
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.String("ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Duration("latency", latency),
			slog.Int("body_size", c.Writer.Size()),
		)

		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				logger.Error("Request error",
					slog.String("error", e.Error()),
					slog.Uint64("type", uint64(e.Type)),
				)
			}
		}
	}
}

// CORSMiddleware handles Cross-Origin Resource Sharing
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// AuthMiddleware verifies the bearer token and stores the authenticated
// principal on the request context. Token issuance is external; this only
// validates HS256 tokens carrying sub, kind, and user_code claims.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		principal, err := principalFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(handler.PrincipalKey, principal)
		c.Next()
	}
}

func principalFromClaims(claims jwt.MapClaims) (domain.Principal, error) {
	sub, _ := claims["sub"].(string)
	kind, _ := claims["kind"].(string)
	userCode, _ := claims["user_code"].(string)

	if sub == "" || userCode == "" {
		return domain.Principal{}, fmt.Errorf("token missing identity claims")
	}

	switch domain.PrincipalKind(kind) {
	case domain.PrincipalUser, domain.PrincipalCompany, domain.PrincipalWorker:
		return domain.Principal{
			Kind:     domain.PrincipalKind(kind),
			ID:       sub,
			UserCode: userCode,
		}, nil
	default:
		return domain.Principal{}, fmt.Errorf("token carries unknown principal kind")
	}
}

// RequireTenant rejects requests whose principal is not a User or Company.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(handler.PrincipalKey)
		principal, ok := value.(domain.Principal)
		if !exists || !ok || !principal.IsTenant() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "tenant account required"})
			return
		}
		c.Next()
	}
}

// RequireWorker rejects requests whose principal is not a Worker.
func RequireWorker() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(handler.PrincipalKey)
		principal, ok := value.(domain.Principal)
		if !exists || !ok || !principal.IsWorker() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "worker account required"})
			return
		}
		c.Next()
	}
}
