package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthRegistry(t *testing.T) {
	t.Run("check fills duration and timestamp", func(t *testing.T) {
		registry := NewHealthRegistry()
		registry.Register("database", func(ctx context.Context) HealthCheckResult {
			return HealthCheckResult{Status: HealthStatusHealthy}
		})

		results := registry.Check(context.Background())
		require.Contains(t, results, "database")
		assert.Equal(t, HealthStatusHealthy, results["database"].Status)
		assert.False(t, results["database"].Timestamp.IsZero())
	})

	t.Run("handler reports 200 when all healthy", func(t *testing.T) {
		registry := NewHealthRegistry()
		registry.Register("database", PingChecker(func(ctx context.Context) error { return nil }))

		rec := httptest.NewRecorder()
		registry.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]HealthCheckResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, HealthStatusHealthy, body["database"].Status)
	})

	t.Run("handler reports 503 when any check fails", func(t *testing.T) {
		registry := NewHealthRegistry()
		registry.Register("database", PingChecker(func(ctx context.Context) error { return nil }))
		registry.Register("broker", PingChecker(func(ctx context.Context) error {
			return errors.New("connection refused")
		}))

		rec := httptest.NewRecorder()
		registry.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]HealthCheckResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, HealthStatusUnhealthy, body["broker"].Status)
		assert.Equal(t, "connection refused", body["broker"].Message)
	})
}
