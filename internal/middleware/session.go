package middleware

import (
	"net/http"
	"time"

	"github.com/yourorg/trading-dashboard/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// SessionHeader carries the signed session token in both directions
	SessionHeader = "X-Session-Token"
	// SessionQueryParam carries the token when neither header nor cookie can
	SessionQueryParam = "session_token"

	sessionKey = "session"
)

// SessionConfig configures session resolution
type SessionConfig struct {
	CookieName   string
	SecureCookie bool
}

// Session resolves the caller's dashboard session from its token, starting a new one
// when the token is missing or invalid. The token is echoed in a header and a cookie.
func Session(store *session.Store, tokens *session.TokenIssuer, config SessionConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" && config.CookieName != "" {
			token, _ = c.Cookie(config.CookieName)
		}
		if token == "" {
			// browsers cannot set headers on websocket upgrades
			token = c.Query(SessionQueryParam)
		}

		var sess *session.Session
		if token != "" {
			sessionID, err := tokens.Validate(token)
			if err != nil {
				logger.Debug("Session token rejected", zap.Error(err))
			} else {
				sess = store.GetOrCreate(sessionID)
			}
		}

		if sess == nil {
			sess = store.Create()
			issued, expiresAt, err := tokens.Issue(sess.ID)
			if err != nil {
				logger.Error("Failed to sign session token", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
				c.Abort()
				return
			}
			token = issued

			if config.CookieName != "" {
				maxAge := int(time.Until(expiresAt).Seconds())
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(config.CookieName, token, maxAge, "/", "", config.SecureCookie, true)
			}
		}

		c.Header(SessionHeader, token)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// SessionFrom returns the session resolved for the request, or nil
func SessionFrom(c *gin.Context) *session.Session {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}
	sess, _ := value.(*session.Session)
	return sess
}
