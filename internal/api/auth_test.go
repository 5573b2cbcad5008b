package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ambassadord/internal/config"
	"ambassadord/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authConfig(keys ...config.APIClientKey) config.APIConfig {
	enabled := true
	return config.APIConfig{
		Enabled: true,
		Auth: config.APIAuthConfig{
			Enabled:      &enabled,
			HeaderAPIKey: "x-api-key",
			APIKeys:      keys,
		},
	}
}

func TestAuthRejectsMissingKey(t *testing.T) {
	cfg := authConfig(config.APIClientKey{Key: "secret", Name: "ops"})
	srv, _ := testServer(t, cfg, &fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracking/status", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsUnknownKey(t *testing.T) {
	cfg := authConfig(config.APIClientKey{Key: "secret", Name: "ops"})
	srv, _ := testServer(t, cfg, &fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracking/status", nil)
	req.Header.Set("x-api-key", "wrong")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAcceptsValidKey(t *testing.T) {
	cfg := authConfig(config.APIClientKey{Key: "secret", Name: "ops"})
	srv, _ := testServer(t, cfg, &fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracking/status", nil)
	req.Header.Set("x-api-key", "secret")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthPermissionDenied(t *testing.T) {
	cfg := authConfig(config.APIClientKey{Key: "secret", Name: "reader", Permissions: []string{"read:status"}})
	runner := &fakeRunner{}
	srv, _ := testServer(t, cfg, runner)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracking/run", nil)
	req.Header.Set("x-api-key", "secret")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, runner.lastReason)
}

func TestAuthPermissionGranted(t *testing.T) {
	cfg := authConfig(config.APIClientKey{Key: "secret", Name: "admin", Permissions: []string{"read:status", "run:tracking"}})
	runner := &fakeRunner{result: models.RunResult{Reason: models.RunReasonManual}}
	srv, _ := testServer(t, cfg, runner)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracking/run", nil)
	req.Header.Set("x-api-key", "secret")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RunReasonManual, runner.lastReason)
}

func TestRateLimitExceeded(t *testing.T) {
	cfg := authConfig(config.APIClientKey{Key: "secret", Name: "ops"})
	cfg.RateLimit = config.APIRateLimitConfig{RPS: 0.001, Burst: 1}
	srv, _ := testServer(t, cfg, &fakeRunner{})

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tracking/status", nil)
		req.Header.Set("x-api-key", "secret")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "request %d", i)
	}
}
