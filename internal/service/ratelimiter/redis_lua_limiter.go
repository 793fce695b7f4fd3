package ratelimiter

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// providerBucketKey is the single shared bucket for outbound provider calls.
const providerBucketKey = "ai_provider_calls"

// RedisLuaLimiter is a token bucket shared across replicas, refilled and
// drained atomically by a Lua script. Used when REDIS_URL is set so the
// aggregate provider call rate from all instances stays within budget.
type RedisLuaLimiter struct {
	redis  *redis.Client
	bucket BucketConfig
	script *redis.Script
}

// NewRedisLuaLimiter constructs the limiter. Returns nil when rdb is nil.
func NewRedisLuaLimiter(rdb *redis.Client, bucket BucketConfig) *RedisLuaLimiter {
	if rdb == nil {
		return nil
	}
	return &RedisLuaLimiter{
		redis:  rdb,
		bucket: bucket,
		script: redis.NewScript(luaTokenBucketScript),
	}
}

const luaTokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])

local tokens = capacity
local last_refill = now

local data = redis.call("HMGET", key, "tokens", "last_refill")
if data[1] ~= false and data[1] ~= nil then
  tokens = tonumber(data[1])
end
if data[2] ~= false and data[2] ~= nil then
  last_refill = tonumber(data[2])
end

if last_refill == nil then
  last_refill = now
end

local delta = now - last_refill
if delta < 0 then
  delta = 0
end

tokens = math.min(capacity, tokens + delta * refill_rate)
last_refill = now

local allowed = 0
local retry_after = 0

if tokens >= cost then
  tokens = tokens - cost
  allowed = 1
else
  local shortage = cost - tokens
  if refill_rate > 0 then
    retry_after = shortage / refill_rate
  else
    retry_after = 0
  end
end

redis.call("HMSET", key, "tokens", tokens, "last_refill", last_refill)

return { allowed, tokens, last_refill, retry_after }
`

// Allow attempts to take one token. Fails open on Redis errors so a cache
// outage cannot take the analysis pipeline down with it.
func (l *RedisLuaLimiter) Allow(ctx context.Context) (bool, time.Duration, error) {
	if l == nil || l.redis == nil {
		return true, 0, nil
	}
	if l.bucket.Capacity <= 0 || l.bucket.RefillRate <= 0 {
		return true, 0, nil
	}

	nowSec := float64(time.Now().UnixNano()) / 1e9
	redisKey := "rate:" + providerBucketKey
	res, err := l.script.Run(ctx, l.redis, []string{redisKey},
		l.bucket.Capacity, l.bucket.RefillRate, nowSec, 1).Result()
	if err != nil {
		slog.Error("redis rate limiter script error", slog.Any("error", err))
		return true, 0, err
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) < 4 {
		slog.Error("redis rate limiter unexpected script result", slog.Any("result", res))
		return true, 0, nil
	}

	allowed := toInt64(vals[0]) == 1
	retryAfter := time.Duration(toFloat64(vals[3]) * float64(time.Second))
	return allowed, retryAfter, nil
}

// Acquire blocks until a token is granted: backpressure, not rejection.
func (l *RedisLuaLimiter) Acquire(ctx context.Context) error {
	for {
		allowed, retryAfter, _ := l.Allow(ctx)
		if allowed {
			return nil
		}
		if retryAfter <= 0 {
			retryAfter = 100 * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryAfter):
		}
	}
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}
