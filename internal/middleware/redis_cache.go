package middleware

import (
	"bytes"
	"context"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// CacheConfig holds configuration for the cache middleware
type CacheConfig struct {
	Duration      time.Duration
	PrefixKey     string
	IncludedPaths []string
}

// ResponseCache is the subset of the Redis client the cache needs
type ResponseCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache creates middleware caching successful GET responses of the included paths.
// Per-session endpoints must never be listed.
func RedisCache(redisClient ResponseCache, config CacheConfig, logger *zap.Logger) gin.HandlerFunc {
	included := make(map[string]bool, len(config.IncludedPaths))
	for _, path := range config.IncludedPaths {
		included[path] = true
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || !included[c.Request.URL.Path] {
			c.Next()
			return
		}

		cacheKey := generateCacheKey(c, config.PrefixKey)
		ctx := c.Request.Context()

		cachedResponse, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil {
			logger.Debug("Cache hit",
				zap.String("path", c.Request.URL.Path),
				zap.String("cache_key", cacheKey))

			c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
			c.Writer.Header().Set("X-Cache", "HIT")
			c.Writer.WriteHeader(http.StatusOK)
			c.Writer.Write(cachedResponse)
			c.Abort()
			return
		}
		if err != redis.Nil {
			logger.Warn("Cache lookup failed", zap.Error(err), zap.String("cache_key", cacheKey))
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		// Only cache successful responses
		if writer.Status() != http.StatusOK {
			return
		}
		if err := redisClient.Set(ctx, cacheKey, writer.body.Bytes(), config.Duration).Err(); err != nil {
			logger.Error("Failed to set cache",
				zap.Error(err),
				zap.String("cache_key", cacheKey))
		} else {
			logger.Debug("Cache set",
				zap.String("path", c.Request.URL.Path),
				zap.String("cache_key", cacheKey),
				zap.Duration("duration", config.Duration))
		}
	}
}

// responseWriter captures the response body for caching
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write captures the response for caching
func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// generateCacheKey creates a unique cache key for a request
func generateCacheKey(c *gin.Context, prefix string) string {
	target := c.Request.URL.Path
	if query := c.Request.URL.RawQuery; query != "" {
		target += "?" + query
	}
	sum := blake2b.Sum256([]byte(target))
	return prefix + ":" + hex.EncodeToString(sum[:])
}
