package controller

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_ms = tonumber(ARGV[3])
local bucket = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(bucket[1])
local ts = tonumber(bucket[2])
if tokens == nil then
  tokens = capacity
  ts = now_ms
end
local elapsed = now_ms - ts
if elapsed > 0 then
  tokens = math.min(capacity, tokens + elapsed / refill_ms)
  ts = now_ms
end
local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end
redis.call('HSET', key, 'tokens', tokens, 'ts', ts)
redis.call('PEXPIRE', key, refill_ms * capacity * 5)
return allowed
`)

// RateLimit is a redis-backed token bucket keyed by client ip and
// route. Without a redis client it is a pass-through, and a redis
// outage never blocks the request.
func RateLimit(redisClient *redis.Client, capacity int, refillInterval time.Duration) gin.HandlerFunc {
	if redisClient == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return func(c *gin.Context) {
		key := fmt.Sprintf("rl:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := tokenBucketScript.Run(
			c.Request.Context(), redisClient,
			[]string{key},
			time.Now().UnixMilli(), capacity, refillInterval.Milliseconds(),
		).Int()
		if err != nil {
			c.Next()
			return
		}
		if allowed == 0 {
			c.JSON(429, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
