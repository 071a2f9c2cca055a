package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"hrserver/internal/identity"
	"hrserver/internal/middleware"
)

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func sessionJSON(s *identity.Session) sessionResponse {
	return sessionResponse{
		UserID:       s.UserID,
		Email:        s.Email,
		FullName:     s.FullName,
		AvatarURL:    s.AvatarURL,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}

func (a *App) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email and password are required")
		return
	}
	sess, err := a.Identity.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, identity.ErrConfirmationRequired) {
			a.json(w, http.StatusAccepted, map[string]string{"message": err.Error()})
			return
		}
		a.error(w, http.StatusUnprocessableEntity, "signup_failed", err.Error())
		return
	}
	a.json(w, http.StatusCreated, sessionJSON(sess))
}

func (a *App) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	sess, err := a.Identity.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		a.error(w, http.StatusUnauthorized, "signin_failed", "invalid email or password")
		return
	}
	a.json(w, http.StatusOK, sessionJSON(sess))
}

func (a *App) SignInWithOAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider   string `json:"provider"`
		RedirectTo string `json:"redirect_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Provider == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "provider is required")
		return
	}
	url, err := a.Identity.SignInWithOAuth(r.Context(), req.Provider, req.RedirectTo)
	if err != nil {
		a.error(w, http.StatusBadGateway, "oauth_failed", err.Error())
		return
	}
	a.json(w, http.StatusOK, map[string]string{"authorization_url": url})
}

func (a *App) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email is required")
		return
	}
	if err := a.Identity.ResetPassword(r.Context(), req.Email); err != nil {
		a.error(w, http.StatusBadGateway, "reset_failed", err.Error())
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "Password reset email sent"})
}

func (a *App) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName  string `json:"full_name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	token := middleware.AccessTokenFromContext(r.Context())
	if err := a.Identity.UpdateProfile(r.Context(), token, req.FullName, req.AvatarURL); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

func (a *App) SignOut(w http.ResponseWriter, r *http.Request) {
	token := middleware.AccessTokenFromContext(r.Context())
	if err := a.Identity.SignOut(r.Context(), token); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"user_id": a.currentUserID(r),
		"email":   middleware.EmailFromContext(r.Context()),
	})
}
