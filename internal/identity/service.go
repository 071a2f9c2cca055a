// Package identity adapts the hosted auth provider (Supabase GoTrue) to the
// session lifecycle the dashboard needs: credential and OAuth sign-in,
// password recovery, profile updates, and session listeners.
package identity

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"

	"hrserver/internal/domain"
)

// ErrConfirmationRequired is returned from SignUp when the provider holds the
// account until the user confirms their email address.
var ErrConfirmationRequired = errors.New("Please check your email to confirm your account")

// Session is an established identity session.
type Session struct {
	UserID       string
	Email        string
	FullName     string
	AvatarURL    string
	AccessToken  string
	RefreshToken string
}

// SessionListener observes every successful session establishment.
type SessionListener func(Session)

// ProfileStore is the slice of the row store used for the best-effort
// profile sync.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, p domain.Profile) error
}

// api is the narrow surface of the GoTrue client the service relies on.
type api interface {
	Signup(req types.SignupRequest) (*types.SignupResponse, error)
	SignInWithEmailPassword(email, password string) (*types.TokenResponse, error)
	Authorize(req types.AuthorizeRequest) (*types.AuthorizeResponse, error)
	Recover(req types.RecoverRequest) error
	UpdateUser(accessToken string, req types.UpdateUserRequest) (*types.UpdateUserResponse, error)
	Logout(accessToken string) error
}

type gotrueAPI struct {
	client gotrue.Client
}

func (g gotrueAPI) Signup(req types.SignupRequest) (*types.SignupResponse, error) {
	return g.client.Signup(req)
}

func (g gotrueAPI) SignInWithEmailPassword(email, password string) (*types.TokenResponse, error) {
	return g.client.SignInWithEmailPassword(email, password)
}

func (g gotrueAPI) Authorize(req types.AuthorizeRequest) (*types.AuthorizeResponse, error) {
	return g.client.Authorize(req)
}

func (g gotrueAPI) Recover(req types.RecoverRequest) error {
	return g.client.Recover(req)
}

func (g gotrueAPI) UpdateUser(accessToken string, req types.UpdateUserRequest) (*types.UpdateUserResponse, error) {
	return g.client.WithToken(accessToken).UpdateUser(req)
}

func (g gotrueAPI) Logout(accessToken string) error {
	return g.client.WithToken(accessToken).Logout()
}

// Service wraps the identity provider. After every successful session
// establishment it fires the registered listeners and kicks off the
// non-blocking profile sync.
type Service struct {
	auth     api
	profiles ProfileStore
	logger   zerolog.Logger

	mu        sync.Mutex
	listeners []SessionListener

	wg sync.WaitGroup
}

// New constructs the service against a Supabase project.
func New(projectRef, anonKey, authURL string, profiles ProfileStore, logger *zerolog.Logger) *Service {
	client := gotrue.New(projectRef, anonKey)
	if authURL != "" {
		client = client.WithCustomGoTrueURL(authURL)
	}
	return newService(gotrueAPI{client: client}, profiles, logger)
}

func newService(auth api, profiles ProfileStore, logger *zerolog.Logger) *Service {
	l := zerolog.New(io.Discard)
	if logger != nil {
		l = *logger
	}
	return &Service{auth: auth, profiles: profiles, logger: l}
}

// OnSession registers a listener for future session establishments.
func (s *Service) OnSession(fn SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SignUp registers a new account. When the provider requires email
// confirmation no session exists yet and ErrConfirmationRequired is returned.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	resp, err := s.auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     map[string]interface{}{"full_name": fullName},
	})
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, ErrConfirmationRequired
	}
	sess := sessionFromToken(resp.Session)
	s.established(ctx, sess)
	return &sess, nil
}

// SignIn authenticates with email and password.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	resp, err := s.auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, err
	}
	sess := sessionFromToken(resp.Session)
	s.established(ctx, sess)
	return &sess, nil
}

// SignInWithOAuth returns the provider authorization URL the browser should
// be redirected to.
func (s *Service) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return "", domain.Validation("provider", "oauth provider is required")
	}
	resp, err := s.auth.Authorize(types.AuthorizeRequest{
		Provider:   types.Provider(provider),
		RedirectTo: redirectTo,
	})
	if err != nil {
		return "", err
	}
	return resp.AuthorizationURL, nil
}

// ResetPassword sends the password recovery email.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	return s.auth.Recover(types.RecoverRequest{Email: email})
}

// UpdateProfile updates the user metadata held by the identity provider.
func (s *Service) UpdateProfile(ctx context.Context, accessToken, fullName, avatarURL string) error {
	data := map[string]interface{}{"full_name": fullName}
	if avatarURL != "" {
		data["avatar_url"] = avatarURL
	}
	_, err := s.auth.UpdateUser(accessToken, types.UpdateUserRequest{Data: data})
	return err
}

// SignOut revokes the session token.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	return s.auth.Logout(accessToken)
}

// Flush waits for in-flight background profile writes; called on shutdown.
func (s *Service) Flush() {
	s.wg.Wait()
}

// established fires listeners and spawns the best-effort profile sync. The
// sync never blocks the auth flow and its failure is logged, not surfaced.
func (s *Service) established(ctx context.Context, sess Session) {
	s.mu.Lock()
	listeners := make([]SessionListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(sess)
	}

	if s.profiles == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.profiles.UpsertProfile(context.WithoutCancel(ctx), domain.Profile{
			ID:        sess.UserID,
			Email:     sess.Email,
			FullName:  sess.FullName,
			AvatarURL: sess.AvatarURL,
		})
		if err != nil {
			s.logger.Warn().Err(err).Msg("identity: profile upsert skipped")
		}
	}()
}

func sessionFromToken(sess types.Session) Session {
	out := Session{
		UserID:       sess.User.ID.String(),
		Email:        sess.User.Email,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	}
	if meta := sess.User.UserMetadata; meta != nil {
		if v, ok := meta["full_name"].(string); ok && v != "" {
			out.FullName = v
		} else if v, ok := meta["name"].(string); ok {
			out.FullName = v
		}
		if v, ok := meta["avatar_url"].(string); ok && v != "" {
			out.AvatarURL = v
		} else if v, ok := meta["picture"].(string); ok {
			out.AvatarURL = v
		}
	}
	return out
}
