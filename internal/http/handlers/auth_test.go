package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSignUpRejectsBadPayload(t *testing.T) {
	app := &App{}

	req := httptest.NewRequest("POST", "/v1/auth/signup", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	app.SignUp(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestSignUpRequiresCredentials(t *testing.T) {
	app := &App{}

	req := httptest.NewRequest("POST", "/v1/auth/signup", bytes.NewBufferString(`{"email":"  ","password":""}`))
	rr := httptest.NewRecorder()
	app.SignUp(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestOAuthRequiresProvider(t *testing.T) {
	app := &App{}

	req := httptest.NewRequest("POST", "/v1/auth/oauth", bytes.NewBufferString(`{"provider":""}`))
	rr := httptest.NewRecorder()
	app.SignInWithOAuth(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestResetPasswordRequiresEmail(t *testing.T) {
	app := &App{}

	req := httptest.NewRequest("POST", "/v1/auth/reset-password", bytes.NewBufferString(`{"email":" "}`))
	rr := httptest.NewRecorder()
	app.ResetPassword(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}
