package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/signup/internal/pkg/errcode"
	"github.com/xxxsen/signup/internal/pkg/response"
)

// rateLimiter admits one request per (ip, route) within window. Keys age out
// of the LRU after window, and the LRU caps memory at maxKeys entries.
type rateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	last    *expirable.LRU[string, time.Time]
	now     func() time.Time
	onLimit gin.HandlerFunc
}

// RateLimit throttles a route. A nil onLimit answers with the JSON error
// envelope; otherwise onLimit writes the 429 response itself.
func RateLimit(window time.Duration, maxKeys int, onLimit gin.HandlerFunc) gin.HandlerFunc {
	l := newRateLimiter(window, maxKeys)
	l.onLimit = onLimit
	return l.handle
}

func newRateLimiter(window time.Duration, maxKeys int) *rateLimiter {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	return &rateLimiter{
		window: window,
		last:   expirable.NewLRU[string, time.Time](maxKeys, nil, window),
		now:    time.Now,
	}
}

func (l *rateLimiter) handle(c *gin.Context) {
	if l.window <= 0 {
		c.Next()
		return
	}
	ip := c.ClientIP()
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	key := strings.Join([]string{ip, c.Request.Method, path}, "|")

	now := l.now()
	l.mu.Lock()
	last, exists := l.last.Get(key)
	if exists && now.Sub(last) < l.window {
		l.mu.Unlock()
		logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
			zap.String("ip", ip),
			zap.String("path", path),
		)
		if l.onLimit != nil {
			l.onLimit(c)
		} else {
			response.Error(c, http.StatusTooManyRequests, errcode.ErrTooMany, http.StatusText(http.StatusTooManyRequests))
		}
		c.Abort()
		return
	}
	l.last.Add(key, now)
	l.mu.Unlock()
	c.Next()
}
