// Package session implements the identity collaborator: sign-up, sign-in,
// sign-out and bearer-token retrieval, persisted under the config directory.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"

	"taskdeck/internal/config"
)

const authTimeout = 10 * time.Second

// User identifies the authenticated principal.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is the stored session state. Nil session means signed out.
type Session struct {
	User User `json:"user"`
}

// AuthError carries the message for an expected auth failure
// (wrong password, email taken). These are not Go errors: the
// auth endpoints report them as data, not as thrown failures.
type AuthError struct {
	Message string `json:"message"`
}

// AuthResult is the outcome of a sign-in or sign-up call.
// Exactly one of Session and Err is set.
type AuthResult struct {
	Session *Session
	Err     *AuthError
}

// ErrNoToken is returned when no bearer token is stored.
var ErrNoToken = errors.New("no stored token")

// Store persists the session and token and talks to the auth endpoints.
// It implements oauth2.TokenSource so the HTTP client can consume the
// stored token the standard way.
type Store struct {
	cfg    *config.Config
	client *http.Client
}

// NewStore creates a Store backed by the given config directory.
func NewStore(cfg *config.Config) *Store {
	return &Store{cfg: cfg, client: http.DefaultClient}
}

// Current returns the stored session, or nil when signed out.
func (s *Store) Current() *Session {
	data, err := os.ReadFile(s.cfg.SessionPath())
	if err != nil {
		return nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil
	}
	if sess.User.ID == "" {
		return nil
	}
	return &sess
}

// Token implements oauth2.TokenSource. It reads the token fresh on every
// call; any caching is the caller's concern.
func (s *Store) Token() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.cfg.TokenPath())
	if err != nil {
		return nil, ErrNoToken
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, ErrNoToken
	}
	return &tok, nil
}

// TokenSource returns the store itself as an oauth2.TokenSource.
func (s *Store) TokenSource() oauth2.TokenSource {
	return s
}

// SignUp registers a new account and stores the resulting session and token.
// Expected failures (email taken, weak password) come back in AuthResult.Err.
func (s *Store) SignUp(ctx context.Context, email, password, name string) (AuthResult, error) {
	return s.authCall(ctx, "/api/auth/sign-up", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
}

// SignIn authenticates and stores the resulting session and token.
// Expected failures (bad credentials) come back in AuthResult.Err.
func (s *Store) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	return s.authCall(ctx, "/api/auth/sign-in", map[string]string{
		"email":    email,
		"password": password,
	})
}

// SignOut removes the stored token and session.
func (s *Store) SignOut() error {
	if err := s.cfg.RemoveToken(); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := s.cfg.RemoveSession(); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// tokenResponse is the wire shape of a successful auth call.
type tokenResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s *Store) authCall(ctx context.Context, path string, body map[string]string) (AuthResult, error) {
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return AuthResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIBaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return AuthResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return AuthResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Detail string `json:"detail"`
		}
		msg := fmt.Sprintf("authentication failed: %d", resp.StatusCode)
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Detail != "" {
			msg = errBody.Detail
		}
		return AuthResult{Err: &AuthError{Message: msg}}, nil
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return AuthResult{}, fmt.Errorf("invalid auth response: %w", err)
	}

	sess := Session{User: tr.User}
	if err := s.save(&sess, tr.Token); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Session: &sess}, nil
}

// save persists the session and token with owner-only permissions.
func (s *Store) save(sess *Session, token string) error {
	if err := s.cfg.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tok := oauth2.Token{AccessToken: token, TokenType: "Bearer"}
	tokData, err := json.MarshalIndent(&tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.cfg.TokenPath(), tokData, 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	sessData, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.cfg.SessionPath(), sessData, 0600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
