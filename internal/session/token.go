package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenType = "dashboard_session"

// TokenIssuer signs and validates session tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a token issuer. Tokens expire after ttl.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for a session
func (t *TokenIssuer) Issue(sessionID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.ttl)

	claims := jwt.MapClaims{
		"sub":  sessionID,
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
		"type": tokenType,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate checks a token and returns the session ID it carries
func (t *TokenIssuer) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	if kind, ok := claims["type"].(string); !ok || kind != tokenType {
		return "", errors.New("invalid token type")
	}

	sessionID, ok := claims["sub"].(string)
	if !ok || sessionID == "" {
		return "", errors.New("invalid session ID in token")
	}

	return sessionID, nil
}
