package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RateLimit caps requests per client IP within a fixed window, counting in
// Redis so the limit holds across server instances.
func RateLimit(client redis.Cmdable, prefix string, maxRequests int, window time.Duration, log logrus.FieldLogger) func(http.Handler) http.Handler {
	if client == nil {
		panic("Redis client cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 || window <= 0 {
		panic("RateLimit needs positive maxRequests and window")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := prefix + "ratelimit:" + clientIP(r)

			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				log.WithError(err).Error("RateLimit: INCR failed")
				http.Error(w, "Rate limiting error", http.StatusInternalServerError)
				return
			}
			if count == 1 {
				if err := client.Expire(ctx, key, window).Err(); err != nil {
					log.WithError(err).Error("RateLimit: EXPIRE failed")
				}
			}

			if count > int64(maxRequests) {
				log.WithField("client_ip", clientIP(r)).Warn("RateLimit: limit exceeded")
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
