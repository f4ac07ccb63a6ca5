package utils

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"

	redis "github.com/redis/go-redis/v9"
)

// RedisClient is an optional shared Redis client used for cross-process
// coordination (rate-limit counters). It stays nil when REDIS_ADDR is not
// configured and everything falls back to in-memory state.
var RedisClient *redis.Client

// InitRedis connects the optional Redis client. Failures are logged, not
// fatal: the service runs fine without Redis, just without cross-process
// limits.
func InitRedis(ctx context.Context) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return
	}
	opts := &redis.Options{Addr: addr}
	if p := os.Getenv("REDIS_PASS"); p != "" {
		opts.Password = p
	}
	if s := os.Getenv("REDIS_DB"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			opts.DB = n
		}
	}
	rc := redis.NewClient(opts)
	if err := rc.Ping(ctx).Err(); err != nil {
		log.Printf("[redis] ping failed, continuing without redis: %v", err)
		return
	}
	RedisClient = rc
}
