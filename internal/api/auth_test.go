package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"barokah/internal/config"

	"github.com/stretchr/testify/assert"
)

func authFixture(cfg config.AuthConfig) http.Handler {
	auth := NewHTTPAuth(cfg)
	return auth.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func adminRequest(key, extra string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	if extra != "" {
		req.Header.Set("x-api-extra", extra)
	}
	return req
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	handler := authFixture(config.AuthConfig{Enabled: false})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest("", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMissingHeaders(t *testing.T) {
	handler := authFixture(config.AuthConfig{
		Enabled: true,
		APIKeys: []config.APIClientKey{{Key: "k", Extra: "e"}},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest("", ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthInvalidKeyAndExtra(t *testing.T) {
	handler := authFixture(config.AuthConfig{
		Enabled: true,
		APIKeys: []config.APIClientKey{{Key: "k", Extra: "e"}},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest("wrong", "e"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest("k", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthPermissionDenied(t *testing.T) {
	handler := authFixture(config.AuthConfig{
		Enabled: true,
		APIKeys: []config.APIClientKey{{Key: "k", Extra: "e", Permissions: []string{permManageGallery}}},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest("k", "e"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthEmptyPermissionsAllowAll(t *testing.T) {
	handler := authFixture(config.AuthConfig{
		Enabled: true,
		APIKeys: []config.APIClientKey{{Key: "k", Extra: "e"}},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, adminRequest("k", "e"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicEndpointSkipsAuth(t *testing.T) {
	handler := authFixture(config.AuthConfig{
		Enabled: true,
		APIKeys: []config.APIClientKey{{Key: "k", Extra: "e"}},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitExceeded(t *testing.T) {
	handler := authFixture(config.AuthConfig{
		Enabled:   true,
		APIKeys:   []config.APIClientKey{{Key: "k", Extra: "e"}},
		RateLimit: config.RateLimitConfig{RPS: 1, Burst: 2},
	})

	var last int
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, adminRequest("k", "e"))
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
