package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type rateWindow struct {
	start time.Time
	count int
}

// RateLimitMiddleware limits each client IP to max requests per window using
// a fixed in-memory window. Single-process state is enough here: the webhook
// sender is one external system and the limit is a safety valve, not a quota.
func RateLimitMiddleware(max int, window time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	windows := make(map[string]*rateWindow)

	return func(c *gin.Context) {
		now := time.Now()
		ip := c.ClientIP()

		mu.Lock()
		w, ok := windows[ip]
		if !ok || now.Sub(w.start) >= window {
			w = &rateWindow{start: now}
			windows[ip] = w
		}
		w.count++
		over := w.count > max

		// drop stale entries so the map stays bounded
		if len(windows) > 1024 {
			for key, win := range windows {
				if now.Sub(win.start) >= window {
					delete(windows, key)
				}
			}
		}
		mu.Unlock()

		if over {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many webhook requests, please try again later.",
			})
			return
		}

		c.Next()
	}
}
