package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SmartGenzAI1/securevibe/internal/httputil"
	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
	securityService "github.com/SmartGenzAI1/securevibe/internal/security/service"
)

// Request signature headers.
const (
	HeaderSignature          = "X-Signature"
	HeaderSignatureTimestamp = "X-Signature-Timestamp"
)

// SignatureVerificationMiddleware verifies HMAC request signatures in strict
// mode. MUST run after UserRateLimitMiddleware, which puts the resolved
// principal in the request context.
//
// The client sends a unix-seconds timestamp in X-Signature-Timestamp and a
// hex HMAC-SHA256 over timestamp+body, keyed by the principal's secret, in
// X-Signature. The timestamp must be within the freshness window on either
// side (anti-replay). Verification failures are logged as security events
// against the principal itself, not just the anonymous source address, and
// rejected with 401.
func SignatureVerificationMiddleware(
	freshness time.Duration,
	events *securityService.EventLog,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok || principal == nil {
			// Middleware ordering bug: the quota middleware should have run.
			logger.Error("signature middleware: no principal in context")
			httputil.HandleErrorGin(c, securityDomain.ErrInvalidSignature, logger)
			c.Abort()
			return
		}

		reject := func(detail string) {
			events.Append(securityDomain.NewSecurityEvent(
				securityDomain.EventSignatureCheck,
				securityDomain.StatusFailed,
				principal.ID,
				securityDomain.ThreatLow,
				detail,
			))
			logger.Warn("request signature verification failed",
				slog.String("principal", principal.ID),
			)
			httputil.HandleErrorGin(c, securityDomain.ErrInvalidSignature, logger)
			c.Abort()
		}

		tsHeader := c.GetHeader(HeaderSignatureTimestamp)
		if tsHeader == "" {
			reject("missing signature timestamp")
			return
		}

		ts, err := strconv.ParseInt(tsHeader, 10, 64)
		if err != nil {
			reject("malformed signature timestamp")
			return
		}

		age := time.Since(time.Unix(ts, 0))
		if age > freshness || age < -freshness {
			reject("signature timestamp outside freshness window")
			return
		}

		sigHeader := c.GetHeader(HeaderSignature)
		if sigHeader == "" {
			reject("missing signature")
			return
		}
		sig, err := hex.DecodeString(sigHeader)
		if err != nil {
			reject("malformed signature")
			return
		}

		body := readFullBody(c)
		expected := ComputeRequestSignature(principal.Secret, tsHeader, body)
		if !hmac.Equal(sig, expected) {
			reject("signature mismatch")
			return
		}

		events.Append(securityDomain.NewSecurityEvent(
			securityDomain.EventSignatureCheck,
			securityDomain.StatusSuccess,
			principal.ID,
			securityDomain.ThreatLow,
			"",
		))

		c.Next()
	}
}

// ComputeRequestSignature returns the HMAC-SHA256 over timestamp+body keyed
// by the principal secret. Exported so clients and tests share the exact
// canonical construction.
func ComputeRequestSignature(secret []byte, timestamp, body string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte(body))
	return mac.Sum(nil)
}
