package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	start time.Time
	count int
}

// windowCounter is a fixed-window counter per key.
type windowCounter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
}

func newWindowCounter() *windowCounter {
	return &windowCounter{clients: make(map[string]*clientInfo)}
}

// hit records one request and returns the count inside the current window.
func (w *windowCounter) hit(key string, window time.Duration, now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	ci, ok := w.clients[key]
	if !ok || now.Sub(ci.start) > window {
		w.clients[key] = &clientInfo{start: now, count: 1}
		w.prune(now, window)
		return 1
	}
	ci.count++
	return ci.count
}

// prune drops expired windows so the map does not grow without bound.
func (w *windowCounter) prune(now time.Time, window time.Duration) {
	if len(w.clients) < 1024 {
		return
	}
	for k, ci := range w.clients {
		if now.Sub(ci.start) > window {
			delete(w.clients, k)
		}
	}
}

// SimpleRateLimit blocks clients that send more than maxRequests per window.
// Used for the API when Redis is not configured.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	counter := newWindowCounter()

	return func(c *gin.Context) {
		if counter.hit(c.ClientIP(), window, time.Now()) > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// RateLimit picks the Redis limiter when a client is installed and the
// in-process one otherwise.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	if RedisEnabled() {
		return RedisRateLimit(maxRequests, window)
	}
	return SimpleRateLimit(maxRequests, window)
}
