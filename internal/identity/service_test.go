package identity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"

	"hrserver/internal/domain"
)

type fakeAPI struct {
	signupResp    *types.SignupResponse
	signupErr     error
	tokenResp     *types.TokenResponse
	tokenErr      error
	authorizeResp *types.AuthorizeResponse
	authorizeErr  error
	recoverEmails []string
	updateTokens  []string
	updateReqs    []types.UpdateUserRequest
	logoutTokens  []string
}

func (f *fakeAPI) Signup(req types.SignupRequest) (*types.SignupResponse, error) {
	return f.signupResp, f.signupErr
}

func (f *fakeAPI) SignInWithEmailPassword(email, password string) (*types.TokenResponse, error) {
	return f.tokenResp, f.tokenErr
}

func (f *fakeAPI) Authorize(req types.AuthorizeRequest) (*types.AuthorizeResponse, error) {
	return f.authorizeResp, f.authorizeErr
}

func (f *fakeAPI) Recover(req types.RecoverRequest) error {
	f.recoverEmails = append(f.recoverEmails, req.Email)
	return nil
}

func (f *fakeAPI) UpdateUser(accessToken string, req types.UpdateUserRequest) (*types.UpdateUserResponse, error) {
	f.updateTokens = append(f.updateTokens, accessToken)
	f.updateReqs = append(f.updateReqs, req)
	return &types.UpdateUserResponse{}, nil
}

func (f *fakeAPI) Logout(accessToken string) error {
	f.logoutTokens = append(f.logoutTokens, accessToken)
	return nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles []domain.Profile
	err      error
}

func (f *fakeProfiles) UpsertProfile(ctx context.Context, p domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.profiles = append(f.profiles, p)
	return nil
}

var testUserID = uuid.MustParse("4b1c6e5a-9f21-4f0e-8c43-30d61a2b9f10")

func confirmedSession(token string) types.Session {
	return types.Session{
		AccessToken:  token,
		RefreshToken: "refresh-1",
		User: types.User{
			ID:    testUserID,
			Email: "hr@example.com",
			UserMetadata: map[string]interface{}{
				"full_name":  "Jordan HR",
				"avatar_url": "https://cdn.example.com/a.png",
			},
		},
	}
}

func TestSignUpConfirmationRequired(t *testing.T) {
	auth := &fakeAPI{signupResp: &types.SignupResponse{}}
	profiles := &fakeProfiles{}
	svc := newService(auth, profiles, nil)

	_, err := svc.SignUp(context.Background(), "hr@example.com", "secret", "Jordan HR")
	if !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}
	svc.Flush()
	if len(profiles.profiles) != 0 {
		t.Fatalf("no profile sync before a session exists: %#v", profiles.profiles)
	}
}

func TestSignUpWithImmediateSession(t *testing.T) {
	auth := &fakeAPI{signupResp: &types.SignupResponse{Session: confirmedSession("tok-1")}}
	profiles := &fakeProfiles{}
	svc := newService(auth, profiles, nil)

	sess, err := svc.SignUp(context.Background(), "hr@example.com", "secret", "Jordan HR")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if sess.AccessToken != "tok-1" || sess.UserID != testUserID.String() {
		t.Fatalf("session: %+v", sess)
	}
	svc.Flush()
	if len(profiles.profiles) != 1 {
		t.Fatalf("expected one profile upsert, got %d", len(profiles.profiles))
	}
}

func TestSignInEstablishesSessionAndSyncsProfile(t *testing.T) {
	auth := &fakeAPI{tokenResp: &types.TokenResponse{Session: confirmedSession("tok-2")}}
	profiles := &fakeProfiles{}
	svc := newService(auth, profiles, nil)

	var heard []Session
	svc.OnSession(func(s Session) { heard = append(heard, s) })

	sess, err := svc.SignIn(context.Background(), "hr@example.com", "secret")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if sess.FullName != "Jordan HR" || sess.AvatarURL != "https://cdn.example.com/a.png" {
		t.Fatalf("metadata not mapped: %+v", sess)
	}
	if len(heard) != 1 || heard[0].UserID != testUserID.String() {
		t.Fatalf("listener: %#v", heard)
	}

	svc.Flush()
	if len(profiles.profiles) != 1 {
		t.Fatalf("expected one profile upsert, got %d", len(profiles.profiles))
	}
	p := profiles.profiles[0]
	if p.ID != testUserID.String() || p.Email != "hr@example.com" || p.FullName != "Jordan HR" {
		t.Fatalf("profile: %+v", p)
	}
}

func TestSignInProfileSyncFailureDoesNotSurface(t *testing.T) {
	auth := &fakeAPI{tokenResp: &types.TokenResponse{Session: confirmedSession("tok-3")}}
	profiles := &fakeProfiles{err: errors.New("row store down")}
	svc := newService(auth, profiles, nil)

	if _, err := svc.SignIn(context.Background(), "hr@example.com", "secret"); err != nil {
		t.Fatalf("profile sync must not block sign-in: %v", err)
	}
	svc.Flush()
}

func TestSessionMetadataFallbacks(t *testing.T) {
	sess := confirmedSession("tok-4")
	sess.User.UserMetadata = map[string]interface{}{
		"name":    "OAuth Name",
		"picture": "https://cdn.example.com/p.png",
	}
	auth := &fakeAPI{tokenResp: &types.TokenResponse{Session: sess}}
	svc := newService(auth, &fakeProfiles{}, nil)

	got, err := svc.SignIn(context.Background(), "hr@example.com", "secret")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if got.FullName != "OAuth Name" || got.AvatarURL != "https://cdn.example.com/p.png" {
		t.Fatalf("fallback metadata: %+v", got)
	}
	svc.Flush()
}

func TestSignInWithOAuth(t *testing.T) {
	auth := &fakeAPI{authorizeResp: &types.AuthorizeResponse{AuthorizationURL: "https://auth.example.com/authorize?provider=google"}}
	svc := newService(auth, &fakeProfiles{}, nil)

	url, err := svc.SignInWithOAuth(context.Background(), " Google ", "https://app.example.com/callback")
	if err != nil {
		t.Fatalf("oauth: %v", err)
	}
	if url != "https://auth.example.com/authorize?provider=google" {
		t.Fatalf("url: %q", url)
	}

	if _, err := svc.SignInWithOAuth(context.Background(), "  ", ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResetPasswordAndSignOutPassThrough(t *testing.T) {
	auth := &fakeAPI{}
	svc := newService(auth, &fakeProfiles{}, nil)

	if err := svc.ResetPassword(context.Background(), "hr@example.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(auth.recoverEmails) != 1 || auth.recoverEmails[0] != "hr@example.com" {
		t.Fatalf("recover emails: %#v", auth.recoverEmails)
	}

	if err := svc.SignOut(context.Background(), "tok-9"); err != nil {
		t.Fatalf("signout: %v", err)
	}
	if len(auth.logoutTokens) != 1 || auth.logoutTokens[0] != "tok-9" {
		t.Fatalf("logout tokens: %#v", auth.logoutTokens)
	}
}

func TestUpdateProfileSendsMetadata(t *testing.T) {
	auth := &fakeAPI{}
	svc := newService(auth, &fakeProfiles{}, nil)

	if err := svc.UpdateProfile(context.Background(), "tok-5", "New Name", ""); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(auth.updateTokens) != 1 || auth.updateTokens[0] != "tok-5" {
		t.Fatalf("tokens: %#v", auth.updateTokens)
	}
	data := auth.updateReqs[0].Data
	if data["full_name"] != "New Name" {
		t.Fatalf("metadata: %#v", data)
	}
	if _, ok := data["avatar_url"]; ok {
		t.Fatalf("empty avatar must not be sent: %#v", data)
	}
}
