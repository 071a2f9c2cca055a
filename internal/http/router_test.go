package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrserver/internal/http/handlers"
	"hrserver/internal/infra"
	"hrserver/internal/middleware"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &infra.Config{
		SupabaseJWTSecret: "router-test-secret",
		AllowedOrigins:    []string{"http://localhost:5173"},
	}
	return NewRouter(cfg, &handlers.App{}, nil)
}

func TestHealthzIsPublic(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, httptest.NewRequest("GET", "/v1/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(t)
	paths := []string{"/v1/jobs/", "/v1/candidates/", "/v1/employees/", "/v1/notifications"}
	for _, p := range paths {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", p, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: got %d, want 401", p, rr.Code)
		}
	}
}

func TestValidTokenPassesAuthGate(t *testing.T) {
	token, err := middleware.SignAccessToken("router-test-secret", middleware.AccessClaims{
		Sub:   "user-1",
		Email: "hr@example.com",
		Exp:   time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rr.Code, rr.Body.String())
	}
}

func TestCORSPreflightAllowedOrigin(t *testing.T) {
	req := httptest.NewRequest("OPTIONS", "/v1/jobs/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status: %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("allow origin: %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
}
