package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisRateLimitConfig holds configuration for the rate limiter
type RedisRateLimitConfig struct {
	RequestsPerMinute  int
	ClientIPHeaderName string
}

// fixed one-minute window per client
var rateLimitScript = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local reset_time = tonumber(ARGV[2])

	local current = redis.call('INCR', key)
	if current == 1 then
		redis.call('EXPIREAT', key, reset_time)
	end

	if current <= limit then
		return {1, limit - current, reset_time}
	end
	return {0, 0, reset_time}
`)

// RedisRateLimit creates middleware for rate limiting requests using Redis, so that
// every replica of the service shares one budget per client
func RedisRateLimit(redisClient redis.Scripter, config RedisRateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := clientKey(c, config.ClientIPHeaderName)

		allowed, remaining, resetTime, err := checkRateLimit(c.Request.Context(), redisClient, clientIP, config.RequestsPerMinute)
		if err != nil {
			logger.Error("Rate limit check failed", zap.Error(err), zap.String("client_ip", clientIP))
			c.Next() // Continue on error
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime, 10))

		if !allowed {
			c.Header("Retry-After", strconv.FormatInt(resetTime-time.Now().Unix(), 10))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// checkRateLimit counts a request against the client's current window
func checkRateLimit(ctx context.Context, redisClient redis.Scripter, key string, requestsPerMinute int) (bool, int, int64, error) {
	now := time.Now().Unix()
	window := now / 60
	resetTime := (window + 1) * 60
	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, window)

	result, err := rateLimitScript.Run(ctx, redisClient, []string{windowKey}, requestsPerMinute, resetTime).Result()
	if err != nil {
		return false, 0, 0, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return false, 0, 0, fmt.Errorf("unexpected rate limit result: %v", result)
	}
	allowed, _ := values[0].(int64)
	remaining, _ := values[1].(int64)
	reset, _ := values[2].(int64)

	return allowed == 1, int(remaining), reset, nil
}
