package http

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/SmartGenzAI1/securevibe/internal/httputil"
	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
	securityService "github.com/SmartGenzAI1/securevibe/internal/security/service"
)

// threatFlaggedKey marks a request annotated for heightened downstream scrutiny.
const threatFlaggedKey = "threat_flagged"

// ThreatDetectionMiddleware gates every request before route handlers.
//
// It matches the request URL, query string, and body against the shared
// attack-signature list. A match annotates the request and escalates the
// source's attack-pattern record but does not by itself reject; the engine
// makes its own flag decision when it runs. Independently of pattern
// matching, the middleware enforces a sliding-window rate limit per
// (identifier, path): exceeding the ceiling within the window yields an
// immediate 429 with a Retry-After hint.
//
// Sources whose accumulated threat level has reached CRITICAL are rejected
// outright with the generic honeytrap response (403); the specific checks
// that got them there are never disclosed.
func ThreatDetectionMiddleware(
	detector *securityService.Detector,
	limiter *securityService.WindowLimiter,
	events *securityService.EventLog,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqCtx := RequestContextFromGin(c)

		if flagged, reasons := detector.Inspect(reqCtx); flagged {
			c.Set(threatFlaggedKey, true)
			logger.Debug("request annotated as suspicious",
				slog.String("source", reqCtx.SourceID),
				slog.Any("reasons", reasons))
		}

		if detector.Level(reqCtx.SourceID) >= securityDomain.ThreatCritical {
			events.Append(securityDomain.NewSecurityEvent(
				securityDomain.EventSecurityIncident,
				securityDomain.StatusBlocked,
				reqCtx.SourceID,
				securityDomain.ThreatCritical,
				"critical threat level, request blocked",
			))
			httputil.HandleErrorGin(c, securityDomain.ErrSecurityViolation, logger)
			c.Abort()
			return
		}

		key := reqCtx.SourceID + "|" + c.Request.URL.Path
		if ok, retryAfter := limiter.Allow(key); !ok {
			events.Append(securityDomain.NewSecurityEvent(
				securityDomain.EventRateLimit,
				securityDomain.StatusBlocked,
				reqCtx.SourceID,
				detector.Level(reqCtx.SourceID),
				"per-path rate limit exceeded: "+c.Request.URL.Path,
			))
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
			httputil.HandleErrorGin(c, securityDomain.ErrRateLimitExceeded, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// IsThreatFlagged reports whether the threat-detection middleware annotated
// this request for heightened scrutiny.
func IsThreatFlagged(c *gin.Context) bool {
	return c.GetBool(threatFlaggedKey)
}
