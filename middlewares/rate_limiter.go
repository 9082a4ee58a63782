package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu  sync.Mutex
	ips map[string]*rate.Limiter
}

func NewRateLimiter(every time.Duration, burst int) *RateLimiter {
	return &RateLimiter{
		limit: rate.Every(every),
		burst: burst,
		ips:   make(map[string]*rate.Limiter),
	}
}

// NewStrictRateLimiter is used for login and setup: 5 attempts, then one
// more every 12 seconds.
func NewStrictRateLimiter() gin.HandlerFunc {
	return NewRateLimiter(12*time.Second, 5).RateLimit()
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, exists := rl.ips[ip]
	if !exists {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.ips[ip] = l
	}
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.limiter(ip).Allow() {
			utils.InfoLogger.WithField("client_ip", ip).Warn("rate limit exceeded")
			c.JSON(http.StatusTooManyRequests, utils.JSONResponse{
				Status:  false,
				Message: "too many attempts, please wait a moment",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
