package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/zag-shortener/internal/handlers"
	"github.com/serroba/zag-shortener/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testOutput struct {
	Body string `json:"body"`
}

// setupTestAPI registers GET /test, which reports the request meta it saw.
func setupTestAPI(t *testing.T) (*chi.Mux, *observer.ObservedLogs, <-chan handlers.RequestMeta) {
	t.Helper()

	core, logs := observer.New(zapcore.InfoLevel)

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(zap.New(core)))

	metaChan := make(chan handlers.RequestMeta, 1)

	huma.Get(api, "/test", func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		metaChan <- handlers.RequestMetaFromContext(ctx)

		return &testOutput{Body: "ok"}, nil
	})

	return router, logs, metaChan
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestRequestMeta(t *testing.T) {
	t.Run("extracts user-agent", func(t *testing.T) {
		router, _, metaChan := setupTestAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("User-Agent", "TestAgent/1.0")

		w := serve(router, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "TestAgent/1.0", (<-metaChan).UserAgent)
	})

	t.Run("generates a request id when none is sent", func(t *testing.T) {
		router, _, metaChan := setupTestAPI(t)

		w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

		meta := <-metaChan
		require.NotEmpty(t, meta.RequestID)
		assert.Equal(t, meta.RequestID, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("keeps the caller's request id", func(t *testing.T) {
		router, _, metaChan := setupTestAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")

		w := serve(router, req)

		assert.Equal(t, "req-123", (<-metaChan).RequestID)
		assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("extracts IP from X-Forwarded-For with single IP", func(t *testing.T) {
		router, _, metaChan := setupTestAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.1")

		serve(router, req)

		assert.Equal(t, "192.168.1.1", (<-metaChan).ClientIP)
	})

	t.Run("extracts first IP from X-Forwarded-For with multiple IPs", func(t *testing.T) {
		router, _, metaChan := setupTestAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1, 172.16.0.1")

		serve(router, req)

		assert.Equal(t, "192.168.1.1", (<-metaChan).ClientIP)
	})

	t.Run("extracts IP from X-Real-IP when X-Forwarded-For is absent", func(t *testing.T) {
		router, _, metaChan := setupTestAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")

		serve(router, req)

		assert.Equal(t, "10.0.0.1", (<-metaChan).ClientIP)
	})

	t.Run("falls back to remote addr when no IP headers present", func(t *testing.T) {
		router, _, metaChan := setupTestAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "203.0.113.7:54321"

		serve(router, req)

		assert.Equal(t, "203.0.113.7", (<-metaChan).ClientIP)
	})

	t.Run("logs one line per request", func(t *testing.T) {
		router, logs, metaChan := setupTestAPI(t)

		serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
		<-metaChan

		entries := logs.FilterMessage("request").All()
		require.Len(t, entries, 1)

		fields := entries[0].ContextMap()
		assert.Equal(t, http.MethodGet, fields["method"])
		assert.Equal(t, "/test", fields["path"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
	})
}
