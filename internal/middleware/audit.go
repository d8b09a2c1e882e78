package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/kafka"
)

// AuditPublisher is the part of the Kafka producer used for auditing
type AuditPublisher interface {
	PublishAudit(ctx context.Context, event kafka.AuditEvent) error
}

// Audit publishes a record of every state-changing operation request to Kafka
func Audit(producer AuditPublisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if isAuditedRequest(c) {
			auditRequest(c, producer, logger)
		}
	}
}

// isAuditedRequest checks if a request should be audited
func isAuditedRequest(c *gin.Context) bool {
	method := c.Request.Method
	if method != http.MethodPost && method != http.MethodDelete {
		return false
	}
	return strings.HasPrefix(c.Request.URL.Path, "/api/operations/") ||
		c.Request.URL.Path == "/api/strategies/analyze"
}

// auditRequest publishes request audit data to Kafka
func auditRequest(c *gin.Context, producer AuditPublisher, logger *zap.Logger) {
	sessionID := "anonymous"
	if sess := SessionFrom(c); sess != nil {
		sessionID = sess.ID
	}

	event := kafka.AuditEvent{
		SessionID: sessionID,
		ClientIP:  c.ClientIP(),
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		Status:    c.Writer.Status(),
		UserAgent: c.Request.UserAgent(),
		Timestamp: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := producer.PublishAudit(ctx, event); err != nil {
		logger.Error("Failed to publish audit event",
			zap.Error(err),
			zap.String("session_id", sessionID))
	}
}
