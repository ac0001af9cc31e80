package security

import (
	"campus_quest_backend/internal/config"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS echoes back whitelisted origins only.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	originSet := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		originSet[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && (originSet[origin] || originSet["*"]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "same-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter 每个客户端 IP 一个令牌桶
type ipLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	interval time.Duration
	burst    int
	expiry   time.Duration
}

func newIPLimiter(cfg config.RateLimitConfig) *ipLimiter {
	maxRequests := cfg.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	return &ipLimiter{
		visitors: make(map[string]*visitor),
		interval: window / time.Duration(maxRequests),
		burst:    maxRequests,
		expiry:   window * 3,
	}
}

func (l *ipLimiter) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.interval), l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (l *ipLimiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.expiry {
			delete(l.visitors, ip)
		}
	}
}

// retryAfter 下一个令牌可用前的整秒数
func (l *ipLimiter) retryAfter() int {
	return int(math.Ceil(l.interval.Seconds()))
}

// 探活与指标抓取不计入限流
func exempt(path string) bool {
	return path == "/metrics" || strings.HasSuffix(path, "/health")
}

// RateLimiter limits per client IP; idle entries are swept every minute.
func RateLimiter(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiter := newIPLimiter(cfg)

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for now := range ticker.C {
			limiter.sweep(now)
		}
	}()

	return func(c *gin.Context) {
		if exempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		if !limiter.get(c.ClientIP(), time.Now()).Allow() {
			c.Header("Retry-After", strconv.Itoa(limiter.retryAfter()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"code": http.StatusTooManyRequests, "message": "too many requests"})
			return
		}

		c.Next()
	}
}
