package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/waitlist-app/utils"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a token bucket per client IP.
type RateLimiter struct {
	rps       rate.Limit
	burst     int
	clients   map[string]*visitor
	lastSweep time.Time
	mu        sync.Mutex
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		clients:   make(map[string]*visitor),
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) limiterFor(ip string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > limiterIdleTTL {
		rl.sweep(now)
	}

	v, ok := rl.clients[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops visitors idle for longer than limiterIdleTTL. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, v := range rl.clients {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// RateLimit -> 429 once the client has spent its burst. A zero rate disables the limiter.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rps <= 0 {
			c.Next()
			return
		}
		if !rl.limiterFor(c.ClientIP(), time.Now()).Allow() {
			utils.RespondJSON(c, http.StatusTooManyRequests, "too many requests, slow down", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
