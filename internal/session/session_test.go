package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"taskdeck/internal/config"
	"taskdeck/internal/session"
)

func newStore(t *testing.T, handler http.Handler) (*session.Store, *config.Config) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{Dir: t.TempDir(), APIBaseURL: srv.URL}
	return session.NewStore(cfg), cfg
}

func authSuccess(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"token":"tok-abc","user":{"id":"u1","email":"a@b.c","name":"Ada"}}`))
	})
}

func TestSignIn_PersistsSessionAndToken(t *testing.T) {
	store, cfg := newStore(t, authSuccess(t))

	res, err := store.SignIn(context.Background(), "a@b.c", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Err != nil {
		t.Fatalf("unexpected auth failure: %v", res.Err.Message)
	}
	if res.Session == nil || res.Session.User.ID != "u1" {
		t.Fatalf("unexpected session: %+v", res.Session)
	}

	// State is durable: a fresh read sees the signed-in principal.
	sess := store.Current()
	if sess == nil || sess.User.Email != "a@b.c" {
		t.Errorf("expected stored session, got %+v", sess)
	}

	tok, err := store.Token()
	if err != nil {
		t.Fatalf("unexpected token error: %v", err)
	}
	if tok.AccessToken != "tok-abc" || tok.TokenType != "Bearer" {
		t.Errorf("unexpected token: %+v", tok)
	}

	for _, path := range []string{cfg.TokenPath(), cfg.SessionPath()} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", path, err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected 0600 permissions on %s, got %v", path, info.Mode().Perm())
		}
	}
}

func TestSignIn_BadCredentialsReturnedAsData(t *testing.T) {
	store, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid email or password"}`))
	}))

	res, err := store.SignIn(context.Background(), "a@b.c", "wrong")
	if err != nil {
		t.Fatalf("expected auth failure as data, got transport error: %v", err)
	}
	if res.Err == nil || res.Err.Message != "Invalid email or password" {
		t.Fatalf("expected detail message, got %+v", res.Err)
	}
	if res.Session != nil {
		t.Error("failed sign-in must not produce a session")
	}
	if store.Current() != nil {
		t.Error("failed sign-in must not persist anything")
	}
}

func TestSignIn_ErrorWithoutDetail(t *testing.T) {
	store, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	res, err := store.SignIn(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Err == nil || res.Err.Message != "authentication failed: 502" {
		t.Fatalf("expected synthesized message, got %+v", res.Err)
	}
}

func TestSignUp_PersistsSessionAndToken(t *testing.T) {
	store, _ := newStore(t, authSuccess(t))

	res, err := store.SignUp(context.Background(), "a@b.c", "hunter22", "Ada")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Err != nil || res.Session == nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if store.Current() == nil {
		t.Error("expected stored session after sign-up")
	}
}

func TestToken_MissingFile(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	store := session.NewStore(cfg)

	if _, err := store.Token(); !errors.Is(err, session.ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
	if store.Current() != nil {
		t.Error("expected nil session with no stored state")
	}
}

func TestSignOut_RemovesStateAndIsIdempotent(t *testing.T) {
	store, cfg := newStore(t, authSuccess(t))

	if _, err := store.SignIn(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := store.SignOut(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.Current() != nil {
		t.Error("expected nil session after sign-out")
	}
	if _, err := os.Stat(cfg.TokenPath()); !os.IsNotExist(err) {
		t.Error("expected token file removed")
	}

	// Signing out twice is fine.
	if err := store.SignOut(); err != nil {
		t.Errorf("expected idempotent sign-out, got %v", err)
	}
}
