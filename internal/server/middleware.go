package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mapforge/internal/metrics"
)

// RequestLogger logs every handled request and records request metrics
// keyed by route pattern, so path parameters don't explode label
// cardinality.
func RequestLogger(logger zerolog.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		status := c.Writer.Status()
		duration := time.Since(start)

		m.RecordHTTPRequest(route, strconv.Itoa(status), duration)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("request handled")
	}
}

// Recovery turns handler panics into a 500 envelope instead of tearing
// down the connection.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		Error(c, http.StatusInternalServerError, "internal server error")
		c.Abort()
	})
}
