package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/boring-ventures/ubigroup-sub000/internal/auth"
	"github.com/boring-ventures/ubigroup-sub000/internal/config"
	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/boring-ventures/ubigroup-sub000/internal/monitoring"
	"github.com/boring-ventures/ubigroup-sub000/internal/server"
	"github.com/google/uuid"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port: 8080,
			Env:  "test",
		},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-for-server-tests",
			Issuer:             "ubigroup-test",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// newTestServer builds an API server with no database or cache. Requests
// that reach a storage call are not exercised here; these tests cover
// routing, auth gating, and request validation.
func newTestServer(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	monitoring.Init()
	cfg := testConfig()
	return server.NewAPIServer(cfg, nil, nil).Router(), cfg
}

func accessToken(t *testing.T, cfg *config.Config, role models.UserRole) string {
	t.Helper()
	svc := auth.NewService(nil, &cfg.JWT)
	pair, err := svc.GenerateTokenPair(&models.User{
		ID:    uuid.New(),
		Email: "user@example.com",
		Role:  role,
	})
	if err != nil {
		t.Fatalf("failed to generate token pair: %v", err)
	}
	return pair.AccessToken
}

func doRequest(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestServer(t)
	w := doRequest(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r, _ := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/properties"},
		{http.MethodGet, "/api/v1/projects"},
		{http.MethodGet, "/api/v1/dashboard/stats"},
		{http.MethodGet, "/api/v1/admin/listings"},
		{http.MethodPost, "/api/v1/admin/properties/" + uuid.NewString() + "/approve"},
	}
	for _, p := range paths {
		if got := doRequest(r, p.method, p.path, "").Code; got != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want %d", p.method, p.path, got, http.StatusUnauthorized)
		}
	}
}

func TestAdminRoutesForbiddenForAgents(t *testing.T) {
	r, cfg := newTestServer(t)
	token := accessToken(t, cfg, models.UserRoleAgent)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/admin/listings"},
		{http.MethodGet, "/api/v1/admin/stats"},
		{http.MethodPost, "/api/v1/admin/properties/" + uuid.NewString() + "/approve"},
		{http.MethodPost, "/api/v1/admin/projects/" + uuid.NewString() + "/reject"},
		{http.MethodDelete, "/api/v1/admin/properties/" + uuid.NewString()},
	}
	for _, p := range paths {
		if got := doRequest(r, p.method, p.path, token).Code; got != http.StatusForbidden {
			t.Errorf("%s %s status = %d, want %d", p.method, p.path, got, http.StatusForbidden)
		}
	}
}

func TestAgentRoutesForbiddenForAdmins(t *testing.T) {
	r, cfg := newTestServer(t)
	token := accessToken(t, cfg, models.UserRoleSuperAdmin)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/properties/" + uuid.NewString() + "/resend"},
		{http.MethodGet, "/api/v1/properties/" + uuid.NewString()},
		{http.MethodGet, "/api/v1/projects"},
		{http.MethodGet, "/api/v1/projects/" + uuid.NewString()},
	}
	for _, p := range paths {
		if got := doRequest(r, p.method, p.path, token).Code; got != http.StatusForbidden {
			t.Errorf("%s %s status = %d, want %d", p.method, p.path, got, http.StatusForbidden)
		}
	}
}

func TestPublicListingsRejectsMalformedFilters(t *testing.T) {
	r, _ := newTestServer(t)

	queries := []string{
		"minPrice=abc",
		"maxBedrooms=two",
		"status=ARCHIVED",
		"propertyType=CASTLE",
	}
	for _, q := range queries {
		w := doRequest(r, http.MethodGet, "/api/v1/listings?"+q, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("query %q status = %d, want %d", q, w.Code, http.StatusBadRequest)
		}

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
			RequestID string `json:"request_id"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}
		if body.Error.Code == "" {
			t.Errorf("query %q: error envelope missing code", q)
		}
		if body.RequestID == "" {
			t.Errorf("query %q: error envelope missing request_id", q)
		}
	}
}

func TestRejectValidatesChunkedBody(t *testing.T) {
	r, cfg := newTestServer(t)
	token := accessToken(t, cfg, models.UserRoleSuperAdmin)

	bodies := []string{
		"{not json",
		`{"rejectionMessage": 42}`,
	}
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost,
			"/api/v1/admin/properties/"+uuid.NewString()+"/reject",
			strings.NewReader(body))
		// Chunked transfer: length unknown up front, body still present.
		req.ContentLength = -1
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q status = %d, want %d", body, w.Code, http.StatusBadRequest)
		}
	}
}

func TestModerationRoutesRejectMalformedIDs(t *testing.T) {
	r, cfg := newTestServer(t)
	token := accessToken(t, cfg, models.UserRoleSuperAdmin)

	w := doRequest(r, http.MethodPost, "/api/v1/admin/properties/not-a-uuid/approve", token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
