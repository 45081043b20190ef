// Package ratelimit throttles bot chats and admin writes with a Redis
// sliding window shared by every process.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter reports whether one more event for key fits the window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// KEYS[1]=key, ARGV: now(ms), windowStart(ms), window(s), member, limit
// 戻り値: 窓内の件数。上限超えなら-1
const luaSlidingWindow = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowSec = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '0', windowStart)

local count = redis.call('ZCARD', key)
if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, now, member)
  redis.call('EXPIRE', key, windowSec)
  return count + 1
end
return -1
`

var slidingWindow = redis.NewScript(luaSlidingWindow)

type RedisLimiter struct {
	rdb    redis.Scripter
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(rdb redis.Scripter, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()
	windowSec := int64(l.window / time.Second)
	if windowSec < 1 {
		windowSec = 1
	}
	nowMs := now.UnixMilli()
	start := nowMs - l.window.Milliseconds()

	res, err := slidingWindow.Run(ctx, l.rdb, []string{l.key(key)},
		nowMs, start, windowSec, uuid.NewString(), l.limit).Int()
	if err != nil {
		return false, err
	}
	return res >= 0, nil
}

func (l *RedisLimiter) key(k string) string {
	return fmt.Sprintf("rate_limit:%s:%s", l.prefix, k)
}

// Redis未設定時に使う
type Noop struct{}

func (Noop) Allow(context.Context, string) (bool, error) { return true, nil }
