package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/tarkandemir/hygieia-shop/utils"
)

// Per-IP rate limiting for the checkout and cron endpoints. When the shared
// Redis client is configured the counter lives there (fixed window, atomic
// INCR), so limits hold across replicas; otherwise an in-memory sliding
// window is used.

type timestamps []int64 // unix nanos

func nowUnix() int64 { return time.Now().UnixNano() }

func getEnvDuration(key string, def time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if v, err := time.ParseDuration(s); err == nil {
			return v
		}
	}
	return def
}

// IPRateLimiter implements per-IP limits with optional trusted-proxy parsing.
type IPRateLimiter struct {
	name        string
	maxReq      int
	window      time.Duration
	mu          sync.Mutex
	state       map[string]timestamps
	cleanupTick time.Duration
	trustedCIDR []string
}

// NewIPRateLimiter creates a limiter allowing maxReq requests per window per
// client IP. name scopes the Redis keys when Redis is in play.
func NewIPRateLimiter(name string, maxReq int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{
		name:        name,
		maxReq:      maxReq,
		window:      window,
		state:       make(map[string]timestamps),
		cleanupTick: getEnvDuration("RATE_CLEANUP_INTERVAL", time.Minute),
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		l.trustedCIDR = strings.Split(v, ",")
	}
	go l.cleanupLoop()
	return l
}

// clientIPGeneric returns the client IP string. If trustedCIDR is provided,
// X-Forwarded-For / X-Real-IP headers are honored when remote addr is inside
// one of the trusted CIDRs or IPs.
func clientIPGeneric(r *http.Request, trustedCIDR []string) string {
	remoteHost, _, _ := net.SplitHostPort(r.RemoteAddr)
	remoteIP := net.ParseIP(remoteHost)
	trusted := false
	for _, cidr := range trustedCIDR {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if strings.Contains(cidr, "/") {
			if _, ipnet, err := net.ParseCIDR(cidr); err == nil {
				if remoteIP != nil && ipnet.Contains(remoteIP) {
					trusted = true
					break
				}
			}
			continue
		}
		if ip := net.ParseIP(cidr); ip != nil && remoteIP != nil && ip.Equal(remoteIP) {
			trusted = true
			break
		}
	}
	if trusted {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware applies the per-IP limit and sets rate-limit headers.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIPGeneric(r, l.trustedCIDR)

		var count, retryAfter int
		if utils.RedisClient != nil {
			count, retryAfter = l.takeRedis(r.Context(), ip)
		} else {
			count, retryAfter = l.takeMemory(ip)
		}

		remaining := l.maxReq - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", l.maxReq))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > l.maxReq {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
				Success: false,
				Message: "Çok fazla istek, lütfen daha sonra tekrar deneyin",
				Data:    map[string]interface{}{"retry_after_seconds": retryAfter},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// takeMemory records a hit in the in-memory sliding window and returns the
// resulting count plus a retry hint.
func (l *IPRateLimiter) takeMemory(ip string) (int, int) {
	now := nowUnix()
	cutoff := now - int64(l.window)

	l.mu.Lock()
	var filtered timestamps
	for _, ts := range l.state[ip] {
		if ts >= cutoff {
			filtered = append(filtered, ts)
		}
	}
	filtered = append(filtered, now)
	l.state[ip] = filtered
	count := len(filtered)
	l.mu.Unlock()

	retryAfter := int(l.window.Seconds())
	if count > 0 {
		oldest := filtered[0]
		if left := oldest + int64(l.window) - now; left > 0 {
			retryAfter = int(left / 1e9)
			if retryAfter < 1 {
				retryAfter = 1
			}
		}
	}
	return count, retryAfter
}

// takeRedis records a hit in a Redis fixed window. Redis errors fall back to
// allowing the request; an unavailable limiter must not take checkout down.
func (l *IPRateLimiter) takeRedis(ctx context.Context, ip string) (int, int) {
	key := fmt.Sprintf("ratelimit:%s:%s", l.name, ip)
	n, err := utils.RedisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0
	}
	if n == 1 {
		_ = utils.RedisClient.Expire(ctx, key, l.window).Err()
	}
	ttl, err := utils.RedisClient.TTL(ctx, key).Result()
	retryAfter := int(l.window.Seconds())
	if err == nil && ttl > 0 {
		retryAfter = int(ttl.Seconds())
	}
	return int(n), retryAfter
}

func (l *IPRateLimiter) cleanupLoop() {
	tick := time.NewTicker(l.cleanupTick)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		cutoff := nowUnix() - int64(l.window)
		for k, arr := range l.state {
			var filtered timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					filtered = append(filtered, ts)
				}
			}
			if len(filtered) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = filtered
			}
		}
		l.mu.Unlock()
	}
}
