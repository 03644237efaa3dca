package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmartGenzAI1/securevibe/internal/metrics"
)

func TestMetricsServer(t *testing.T) {
	provider, err := metrics.NewProvider("securevibe")
	require.NoError(t, err)
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	server := NewMetricsServer("127.0.0.1", 8081, testLogger(), provider)
	require.NotNil(t, server)

	t.Run("serves metrics endpoint", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/metrics", nil)
		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown route returns 404", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/nope", nil)
		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("shutdown succeeds", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		assert.NoError(t, server.Shutdown(ctx))
	})
}

func TestNewMetricsServer_NilProvider(t *testing.T) {
	server := NewMetricsServer("127.0.0.1", 8081, testLogger(), nil)
	require.NotNil(t, server)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
