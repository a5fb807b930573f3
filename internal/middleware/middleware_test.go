package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boring-ventures/ubigroup-sub000/internal/config"
	"github.com/boring-ventures/ubigroup-sub000/internal/middleware"
	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret-key-for-middleware-tests"

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:             testSecret,
		Issuer:             "ubigroup-test",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
	}
}

func signToken(t *testing.T, subject string, role models.UserRole, expiresIn time.Duration) string {
	t.Helper()
	claims := middleware.Claims{
		UserID: uuid.New().String(),
		Role:   string(role),
		Email:  "agent@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "ubigroup-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	chain := append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/protected", chain...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	auth := middleware.NewJWTAuthenticator(testJWTConfig())
	r := newTestRouter(auth.JWTAuth())

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid access token", "Bearer " + signToken(t, "access", models.UserRoleAgent, 15*time.Minute), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer token", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"expired token", "Bearer " + signToken(t, "access", models.UserRoleAgent, -time.Minute), http.StatusUnauthorized},
		{"refresh token rejected", "Bearer " + signToken(t, "refresh", models.UserRoleAgent, 15*time.Minute), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doRequest(r, tt.header).Code; got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	auth := middleware.NewJWTAuthenticator(&config.JWTConfig{Secret: "a-different-secret"})
	r := newTestRouter(auth.JWTAuth())

	token := signToken(t, "access", models.UserRoleAgent, 15*time.Minute)
	if got := doRequest(r, "Bearer "+token).Code; got != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", got, http.StatusUnauthorized)
	}
}

func TestRequireRole(t *testing.T) {
	auth := middleware.NewJWTAuthenticator(testJWTConfig())

	tests := []struct {
		name       string
		middleware gin.HandlerFunc
		role       models.UserRole
		wantStatus int
	}{
		{"agent passes agent gate", middleware.RequireAgent(), models.UserRoleAgent, http.StatusOK},
		{"admin fails agent gate", middleware.RequireAgent(), models.UserRoleSuperAdmin, http.StatusForbidden},
		{"admin passes admin gate", middleware.RequireSuperAdmin(), models.UserRoleSuperAdmin, http.StatusOK},
		{"agent fails admin gate", middleware.RequireSuperAdmin(), models.UserRoleAgent, http.StatusForbidden},
		{"agent passes either gate", middleware.RequireAgentOrSuperAdmin(), models.UserRoleAgent, http.StatusOK},
		{"admin passes either gate", middleware.RequireAgentOrSuperAdmin(), models.UserRoleSuperAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(auth.JWTAuth(), tt.middleware)
			token := signToken(t, "access", tt.role, 15*time.Minute)
			if got := doRequest(r, "Bearer "+token).Code; got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestRequireRoleWithoutAuthContext(t *testing.T) {
	r := newTestRouter(middleware.RequireAgent())
	if got := doRequest(r, "").Code; got != http.StatusForbidden {
		t.Errorf("status = %d, want %d", got, http.StatusForbidden)
	}
}

func TestGetActorFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(middleware.ContextKeyUserID, userID.String())
	c.Set(middleware.ContextKeyRole, string(models.UserRoleSuperAdmin))

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		t.Fatal("expected actor from populated context")
	}
	if actor.ID != userID {
		t.Errorf("actor.ID = %s, want %s", actor.ID, userID)
	}
	if !actor.IsAdmin() {
		t.Error("actor should be admin")
	}

	empty, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := middleware.GetActorFromContext(empty); ok {
		t.Error("expected no actor from empty context")
	}

	bad, _ := gin.CreateTestContext(httptest.NewRecorder())
	bad.Set(middleware.ContextKeyUserID, "not-a-uuid")
	bad.Set(middleware.ContextKeyRole, string(models.UserRoleAgent))
	if _, ok := middleware.GetActorFromContext(bad); ok {
		t.Error("expected no actor for malformed user id")
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString("request_id")})
	})

	// Generated when absent
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID header")
	}

	// Propagated when present
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}
}
