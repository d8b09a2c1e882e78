package middleware

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const redacted = "REDACTED"

// Logger creates a middleware for logging HTTP requests. Session tokens passed in
// the query string are redacted and health probes are logged at debug level.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", loggedPath(c.Request.URL)),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if route := c.FullPath(); route != "" {
			fields = append(fields, zap.String("route", route))
		}
		if sess := SessionFrom(c); sess != nil {
			fields = append(fields, zap.String("session_id", sess.ID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("Server error", fields...)
		case status >= 400:
			logger.Warn("Client error", fields...)
		case c.Request.URL.Path == "/health":
			logger.Debug("Health probe", fields...)
		default:
			logger.Info("Request completed", fields...)
		}
	}
}

func loggedPath(u *url.URL) string {
	if u.RawQuery == "" {
		return u.Path
	}
	query := u.Query()
	if query.Has(SessionQueryParam) {
		query.Set(SessionQueryParam, redacted)
	}
	return u.Path + "?" + query.Encode()
}
