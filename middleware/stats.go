package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ui-inspector/backend/logging"
)

// StatsMiddleware tracks visitors and inspection requests
func StatsMiddleware(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Track unique visitor
		stats.TrackVisitor(c.ClientIP())

		// Call the next handler
		c.Next()

		// Only track inspection requests
		if c.Request.URL.Path == "/api/inspect" && c.Request.Method == "POST" {
			duration := float64(time.Since(start).Milliseconds())
			stats.TrackInspection(c.GetString("inspect_target"), duration, c.Writer.Status() >= 400)
		}

		// Periodically save statistics
		if n := stats.GetStatistics()["totalRequests"].(int); n > 0 && n%100 == 0 {
			go stats.Save() // Save asynchronously to not block the request
		}
	}
}
