package http

import (
	"encoding/hex"
	"fmt"
	"io"
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

func newSignatureRouter(
	principals *securityDomain.PrincipalSet,
	events *securityService.EventLog,
	freshness time.Duration,
) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(UserRateLimitMiddleware(principals,
		securityService.NewWindowLimiter(1000, time.Hour),
		securityService.NewWindowLimiter(1000, time.Hour),
		events, testLogger()))
	router.Use(SignatureVerificationMiddleware(freshness, events, testLogger()))
	router.POST("/v1/transit/encrypt", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func signedRequest(router *gin.Engine, body, timestamp, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/transit/encrypt", strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:51234"
	req.Header.Set("Authorization", "Bearer svc-base")
	if timestamp != "" {
		req.Header.Set(HeaderSignatureTimestamp, timestamp)
	}
	if signature != "" {
		req.Header.Set(HeaderSignature, signature)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignatureVerificationMiddleware(t *testing.T) {
	const body = `{"plaintext":"aGVsbG8="}`
	secret := []byte("hmac-test-secret")

	t.Run("valid signature passes", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newSignatureRouter(principals, events, 5*time.Minute)

		ts := fmt.Sprintf("%d", time.Now().Unix())
		sig := hex.EncodeToString(ComputeRequestSignature(secret, ts, body))

		w := signedRequest(router, body, ts, sig)
		assert.Equal(t, http.StatusOK, w.Code)

		snapshot := events.Snapshot()
		require.NotEmpty(t, snapshot)
		last := snapshot[len(snapshot)-1]
		assert.Equal(t, securityDomain.EventSignatureCheck, last.Kind)
		assert.Equal(t, securityDomain.StatusSuccess, last.Status)
	})

	t.Run("missing timestamp is rejected", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newSignatureRouter(principals, events, 5*time.Minute)

		sig := hex.EncodeToString(ComputeRequestSignature(secret, "", body))
		w := signedRequest(router, body, "", sig)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed timestamp is rejected", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newSignatureRouter(principals, events, 5*time.Minute)

		w := signedRequest(router, body, "not-a-number", "abcd")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("stale timestamp is rejected", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newSignatureRouter(principals, events, 5*time.Minute)

		ts := fmt.Sprintf("%d", time.Now().Add(-10*time.Minute).Unix())
		sig := hex.EncodeToString(ComputeRequestSignature(secret, ts, body))

		w := signedRequest(router, body, ts, sig)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		snapshot := events.Snapshot()
		require.NotEmpty(t, snapshot)
		assert.Equal(t, securityDomain.StatusFailed, snapshot[len(snapshot)-1].Status)
	})

	t.Run("future timestamp outside the window is rejected", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newSignatureRouter(principals, events, 5*time.Minute)

		ts := fmt.Sprintf("%d", time.Now().Add(10*time.Minute).Unix())
		sig := hex.EncodeToString(ComputeRequestSignature(secret, ts, body))

		w := signedRequest(router, body, ts, sig)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newSignatureRouter(principals, events, 5*time.Minute)

		ts := fmt.Sprintf("%d", time.Now().Unix())
		w := signedRequest(router, body, ts, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong signature is rejected and logged against the principal", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newSignatureRouter(principals, events, 5*time.Minute)

		ts := fmt.Sprintf("%d", time.Now().Unix())
		sig := hex.EncodeToString(ComputeRequestSignature([]byte("wrong-secret"), ts, body))

		w := signedRequest(router, body, ts, sig)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		snapshot := events.Snapshot()
		require.NotEmpty(t, snapshot)
		last := snapshot[len(snapshot)-1]
		assert.Equal(t, securityDomain.EventSignatureCheck, last.Kind)
		assert.Equal(t, securityDomain.StatusFailed, last.Status)
		assert.Equal(t, "svc-base", last.Source)
	})

	t.Run("signature over a different body is rejected", func(t *testing.T) {
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)
		router := newSignatureRouter(principals, events, 5*time.Minute)

		ts := fmt.Sprintf("%d", time.Now().Unix())
		sig := hex.EncodeToString(ComputeRequestSignature(secret, ts, `{"other":"body"}`))

		w := signedRequest(router, body, ts, sig)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSignatureVerificationMiddleware_LargeBody(t *testing.T) {
	secret := []byte("hmac-test-secret")

	// Larger than the detector's body-sniff cap: the signature must cover
	// every byte, not a prefix.
	prefix := strings.Repeat("a", 64*1024+4)

	newEchoRouter := func(t *testing.T) (*gin.Engine, *int) {
		t.Helper()
		principals := loadTestPrincipals(t)
		events := securityService.NewEventLog(10)

		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(UserRateLimitMiddleware(principals,
			securityService.NewWindowLimiter(1000, time.Hour),
			securityService.NewWindowLimiter(1000, time.Hour),
			events, testLogger()))
		router.Use(SignatureVerificationMiddleware(5*time.Minute, events, testLogger()))

		received := new(int)
		router.POST("/v1/transit/encrypt", func(c *gin.Context) {
			data, err := io.ReadAll(c.Request.Body)
			require.NoError(t, err)
			*received = len(data)
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		return router, received
	}

	t.Run("signature over the full body passes", func(t *testing.T) {
		router, received := newEchoRouter(t)

		ts := fmt.Sprintf("%d", time.Now().Unix())
		sig := hex.EncodeToString(ComputeRequestSignature(secret, ts, prefix))

		w := signedRequest(router, prefix, ts, sig)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, len(prefix), *received)
	})

	t.Run("signature covering only a prefix is rejected", func(t *testing.T) {
		router, received := newEchoRouter(t)

		body := prefix + strings.Repeat("b", 100)
		ts := fmt.Sprintf("%d", time.Now().Unix())
		sig := hex.EncodeToString(ComputeRequestSignature(secret, ts, prefix))

		w := signedRequest(router, body, ts, sig)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Zero(t, *received)
	})
}

func TestComputeRequestSignature(t *testing.T) {
	secret := []byte("secret")

	sig1 := ComputeRequestSignature(secret, "1700000000", "body")
	sig2 := ComputeRequestSignature(secret, "1700000000", "body")
	assert.Equal(t, sig1, sig2)

	assert.NotEqual(t, sig1, ComputeRequestSignature(secret, "1700000001", "body"))
	assert.NotEqual(t, sig1, ComputeRequestSignature(secret, "1700000000", "other"))
	assert.NotEqual(t, sig1, ComputeRequestSignature([]byte("other"), "1700000000", "body"))
	assert.Len(t, sig1, 32)
}
