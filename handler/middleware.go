package handler

import (
	"net/http"
	"strings"
	"time"

	"leetcoders/logger"
	"leetcoders/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
)

const (
	ctxUserID  = "userID"
	ctxTraceID = "traceID"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequestLogger logs one line per request with its status and latency.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-Id")
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Set(ctxTraceID, traceID)
		c.Header("X-Trace-Id", traceID)
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		level := zapcore.InfoLevel
		switch {
		case status >= 500:
			level = zapcore.ErrorLevel
		case status >= 400:
			level = zapcore.WarnLevel
		}
		log.Log(level, traceID, "HTTP request", map[string]any{
			"method":    c.Request.Method,
			"path":      c.FullPath(),
			"status":    status,
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIp":  c.ClientIP(),
		}, "HANDLER", nil)
	}
}

// Auth requires "Authorization: Bearer <token>". A missing token is refused
// with 403; a token that fails verification with 401.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			failWith(c, http.StatusForbidden, service.ErrTypeForbidden, "Access denied, no token provided")
			return
		}
		userID, err := tokens.Verify(token)
		if err != nil {
			failWith(c, http.StatusUnauthorized, service.ErrTypeAuth, "Invalid or expired token")
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
