package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RateLimiter is a per-client-IP token bucket: rate tokens replenish per
// second up to burst. Scans fan out into several upstream requests each, so
// the bucket sits in front of the whole API surface.
type RateLimiter struct {
	mu       sync.Mutex
	rate     int
	burst    int
	tokens   map[string]int
	lastTime map[string]time.Time
}

func NewRateLimiter(rate, burst int) *RateLimiter {
	if rate <= 0 {
		rate = 1
	}
	if burst < rate {
		burst = rate
	}
	return &RateLimiter{
		rate:     rate,
		burst:    burst,
		tokens:   make(map[string]int),
		lastTime: make(map[string]time.Time),
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !rl.allow(ip) {
			log.Warn().Str("ip", ip).Str("path", c.Request.URL.Path).Msg("[http] rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if _, exists := rl.tokens[ip]; !exists {
		rl.tokens[ip] = rl.burst
		rl.lastTime[ip] = now
	}

	elapsed := now.Sub(rl.lastTime[ip])
	rl.lastTime[ip] = now

	rl.tokens[ip] += int(elapsed.Seconds()) * rl.rate
	if rl.tokens[ip] > rl.burst {
		rl.tokens[ip] = rl.burst
	}

	if rl.tokens[ip] <= 0 {
		return false
	}
	rl.tokens[ip]--
	return true
}
