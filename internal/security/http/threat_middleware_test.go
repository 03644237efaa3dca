package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
	securityService "github.com/SmartGenzAI1/securevibe/internal/security/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newThreatRouter(
	detector *securityService.Detector,
	limiter *securityService.WindowLimiter,
	events *securityService.EventLog,
) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ThreatDetectionMiddleware(detector, limiter, events, testLogger()))
	router.POST("/v1/transit/encrypt", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"flagged": IsThreatFlagged(c)})
	})
	return router
}

func performRequest(router *gin.Engine, method, path, body, userAgent string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:51234"
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestThreatDetectionMiddleware(t *testing.T) {
	t.Run("benign request passes through", func(t *testing.T) {
		detector := securityService.NewDetector(
			securityService.DetectorConfig{MaxRequests: 100, BurstPerSecond: 100}, testLogger())
		limiter := securityService.NewWindowLimiter(100, time.Minute)
		events := securityService.NewEventLog(10)
		router := newThreatRouter(detector, limiter, events)

		w := performRequest(router, http.MethodPost, "/v1/transit/encrypt", `{"plaintext":"aGk="}`, "Mozilla/5.0")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"flagged":false`)
	})

	t.Run("suspicious request is annotated but not rejected", func(t *testing.T) {
		detector := securityService.NewDetector(
			securityService.DetectorConfig{MaxRequests: 100, BurstPerSecond: 100}, testLogger())
		limiter := securityService.NewWindowLimiter(100, time.Minute)
		events := securityService.NewEventLog(10)
		router := newThreatRouter(detector, limiter, events)

		w := performRequest(router, http.MethodPost, "/v1/transit/encrypt",
			`{"q":"' UNION SELECT * FROM users"}`, "Mozilla/5.0")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"flagged":true`)
	})

	t.Run("critical source is rejected with the honeytrap response", func(t *testing.T) {
		detector := securityService.NewDetector(
			securityService.DetectorConfig{MaxRequests: 1000, BurstPerSecond: 1000}, testLogger())
		limiter := securityService.NewWindowLimiter(1000, time.Minute)
		events := securityService.NewEventLog(50)
		router := newThreatRouter(detector, limiter, events)

		// Each scanner hit records one suspicious event; the tenth crosses
		// the critical threshold.
		var w *httptest.ResponseRecorder
		for i := 0; i < 10; i++ {
			w = performRequest(router, http.MethodPost, "/v1/transit/encrypt", "{}", "sqlmap/1.7.2")
		}

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Request rejected")

		var blocked bool
		for _, ev := range events.Snapshot() {
			if ev.Kind == securityDomain.EventSecurityIncident && ev.Status == securityDomain.StatusBlocked {
				blocked = true
			}
		}
		assert.True(t, blocked, "a SECURITY_INCIDENT event should be logged")
	})

	t.Run("per-path rate limit returns 429 with Retry-After", func(t *testing.T) {
		detector := securityService.NewDetector(
			securityService.DetectorConfig{MaxRequests: 1000, BurstPerSecond: 1000}, testLogger())
		limiter := securityService.NewWindowLimiter(2, time.Minute)
		events := securityService.NewEventLog(10)
		router := newThreatRouter(detector, limiter, events)

		performRequest(router, http.MethodPost, "/v1/transit/encrypt", "{}", "Mozilla/5.0")
		performRequest(router, http.MethodPost, "/v1/transit/encrypt", "{}", "Mozilla/5.0")
		w := performRequest(router, http.MethodPost, "/v1/transit/encrypt", "{}", "Mozilla/5.0")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))

		snapshot := events.Snapshot()
		require.NotEmpty(t, snapshot)
		last := snapshot[len(snapshot)-1]
		assert.Equal(t, securityDomain.EventRateLimit, last.Kind)
		assert.Equal(t, securityDomain.StatusBlocked, last.Status)
	})
}
