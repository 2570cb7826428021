package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prepdeck/prepdeck-backend/internal/logger"
	"github.com/prepdeck/prepdeck-backend/internal/metrics"
)

// RequestLog logs each request after completion and records request metrics.
func RequestLog(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

		if status >= 500 {
			log.Error("Request failed", "method", c.Request.Method, "route", route, "status", status, "elapsed", elapsed.String())
			return
		}
		log.Info("Request completed", "method", c.Request.Method, "route", route, "status", status, "elapsed", elapsed.String())
	}
}
