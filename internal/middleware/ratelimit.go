package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
)

// idleLimiterTTL is how long an IP keeps its bucket without requests.
const idleLimiterTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	if len(l.visitors) > 1024 {
		l.evict(now)
	}

	return v.limiter.AllowN(now, 1)
}

func (l *IPRateLimiter) evict(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleLimiterTTL {
			delete(l.visitors, ip)
		}
	}
}

// RateLimit answers 429 once an IP exhausts its bucket.
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			httperr.Write(c, http.StatusTooManyRequests, "rate_limited", "Muitas requisições. Tente novamente em instantes.")
			c.Abort()
			return
		}
		c.Next()
	}
}
