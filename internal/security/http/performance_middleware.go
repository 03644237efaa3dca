package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
	securityService "github.com/SmartGenzAI1/securevibe/internal/security/service"
)

// PerformanceMonitorMiddleware times every request against a wall clock and
// warns on latency above the threshold and on non-2xx responses. Slow
// requests additionally produce a SLOW_REQUEST security event. Purely
// observational: it never alters control flow.
func PerformanceMonitorMiddleware(
	slowThreshold time.Duration,
	events *securityService.EventLog,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()

		if elapsed > slowThreshold {
			events.Append(securityDomain.NewSecurityEvent(
				securityDomain.EventSlowRequest,
				securityDomain.StatusSuccess,
				c.ClientIP(),
				securityDomain.ThreatLow,
				c.Request.URL.Path,
			))
			logger.Warn("slow request",
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.Duration("duration", elapsed),
			)
		}

		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			logger.Warn("non-2xx response",
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", elapsed),
			)
		}
	}
}
