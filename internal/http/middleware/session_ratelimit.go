package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionRateLimit limits how many game sessions a player may start per
// window. Uses Redis when available, otherwise an in-process counter keyed by
// player. Requires JWT to run before it.
func SessionRateLimit(maxSessions int, window time.Duration) gin.HandlerFunc {
	local := newWindowCounter()

	return func(c *gin.Context) {
		playerID, ok := PlayerID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var (
			val int64
			err error
		)
		ident := strconv.FormatInt(playerID, 10)
		if redisClient != nil {
			key := "session_rl:" + ident + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
			val, err = incrWindow(c.Request.Context(), key, window)
			if err != nil {
				// fail-open
				c.Header("X-SessionRateLimit-Error", "redis-error")
				c.Next()
				return
			}
		} else {
			val = int64(local.hit(ident, window, time.Now()))
		}

		c.Header("X-SessionRateLimit-Limit", strconv.Itoa(maxSessions))
		c.Header("X-SessionRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxSessions)-val), 10))

		if val > int64(maxSessions) {
			RLBlocked.WithLabelValues("session:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "session rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("session:" + c.FullPath()).Inc()
		c.Next()
	}
}
