package http

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	securityDomain "github.com/SmartGenzAI1/securevibe/internal/security/domain"
	securityService "github.com/SmartGenzAI1/securevibe/internal/security/service"
)

func loadTestPrincipals(t *testing.T) *securityDomain.PrincipalSet {
	t.Helper()

	secret := base64.StdEncoding.EncodeToString([]byte("hmac-test-secret"))
	t.Setenv("API_CLIENTS", "svc-base:"+secret+":base,svc-elevated:"+secret+":elevated")

	set, err := securityDomain.LoadPrincipalSetFromEnv()
	require.NoError(t, err)
	t.Cleanup(set.Close)
	return set
}

func newQuotaRouter(
	principals *securityDomain.PrincipalSet,
	baseLimiter *securityService.WindowLimiter,
	elevatedLimiter *securityService.WindowLimiter,
	events *securityService.EventLog,
) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(UserRateLimitMiddleware(principals, baseLimiter, elevatedLimiter, events, testLogger()))
	router.GET("/v1/security/status", func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no principal in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"principal": principal.ID})
	})
	return router
}

func authRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/security/status", nil)
	req.RemoteAddr = "192.0.2.1:51234"
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserRateLimitMiddleware(t *testing.T) {
	t.Run("missing credential is rejected with 401", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newQuotaRouter(principals,
			securityService.NewWindowLimiter(10, time.Hour),
			securityService.NewWindowLimiter(100, time.Hour),
			events)

		w := authRequest(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed authorization header is rejected", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newQuotaRouter(principals,
			securityService.NewWindowLimiter(10, time.Hour),
			securityService.NewWindowLimiter(100, time.Hour),
			events)

		w := authRequest(router, "Basic c3ZjLWJhc2U=")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown principal is rejected", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newQuotaRouter(principals,
			securityService.NewWindowLimiter(10, time.Hour),
			securityService.NewWindowLimiter(100, time.Hour),
			events)

		w := authRequest(router, "Bearer svc-missing")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("known principal passes and lands in the request context", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newQuotaRouter(principals,
			securityService.NewWindowLimiter(10, time.Hour),
			securityService.NewWindowLimiter(100, time.Hour),
			events)

		w := authRequest(router, "Bearer svc-base")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "svc-base")
	})

	t.Run("bearer scheme is case insensitive", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newQuotaRouter(principals,
			securityService.NewWindowLimiter(10, time.Hour),
			securityService.NewWindowLimiter(100, time.Hour),
			events)

		w := authRequest(router, "bearer svc-base")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("base tier exhaustion suggests an upgrade", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newQuotaRouter(principals,
			securityService.NewWindowLimiter(2, time.Hour),
			securityService.NewWindowLimiter(100, time.Hour),
			events)

		authRequest(router, "Bearer svc-base")
		authRequest(router, "Bearer svc-base")
		w := authRequest(router, "Bearer svc-base")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "upgrade required")
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("elevated tier exhaustion reports usage limit", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newQuotaRouter(principals,
			securityService.NewWindowLimiter(2, time.Hour),
			securityService.NewWindowLimiter(1, time.Hour),
			events)

		authRequest(router, "Bearer svc-elevated")
		w := authRequest(router, "Bearer svc-elevated")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "usage limit exceeded")
	})

	t.Run("tiers consume independent quotas", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newQuotaRouter(principals,
			securityService.NewWindowLimiter(1, time.Hour),
			securityService.NewWindowLimiter(100, time.Hour),
			events)

		authRequest(router, "Bearer svc-base")
		w := authRequest(router, "Bearer svc-base")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		w = authRequest(router, "Bearer svc-elevated")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("quota exhaustion appends a usage limit event", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newQuotaRouter(principals,
			securityService.NewWindowLimiter(1, time.Hour),
			securityService.NewWindowLimiter(100, time.Hour),
			events)

		authRequest(router, "Bearer svc-base")
		authRequest(router, "Bearer svc-base")

		snapshot := events.Snapshot()
		require.Len(t, snapshot, 1)
		assert.Equal(t, securityDomain.EventUsageLimit, snapshot[0].Kind)
		assert.Equal(t, "svc-base", snapshot[0].Source)
	})
}
