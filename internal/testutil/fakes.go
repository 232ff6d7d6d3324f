package testutil

import (
	"context"
	"sync"

	"taskdeck/internal/session"
)

// FakeSessions is a session-store stub with a settable session and
// scriptable auth results.
type FakeSessions struct {
	mu   sync.Mutex
	sess *session.Session

	// Scripted outcomes for the auth calls.
	SignInResult session.AuthResult
	SignInErr    error
	SignUpResult session.AuthResult
	SignUpErr    error
	SignOutErr   error
}

// NewFakeSessions creates a provider authenticated as the given owner.
// An empty ownerID means signed out.
func NewFakeSessions(ownerID string) *FakeSessions {
	f := &FakeSessions{}
	f.SetOwner(ownerID)
	return f
}

// SetOwner replaces the current session.
func (f *FakeSessions) SetOwner(ownerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ownerID == "" {
		f.sess = nil
		return
	}
	f.sess = &session.Session{User: session.User{ID: ownerID}}
}

// Current implements dashboard.SessionProvider and commands.SessionStore.
func (f *FakeSessions) Current() *session.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess
}

// SignIn implements commands.SessionStore. A scripted success also
// installs the result's session.
func (f *FakeSessions) SignIn(ctx context.Context, email, password string) (session.AuthResult, error) {
	if f.SignInErr != nil {
		return session.AuthResult{}, f.SignInErr
	}
	if f.SignInResult.Session != nil {
		f.mu.Lock()
		f.sess = f.SignInResult.Session
		f.mu.Unlock()
	}
	return f.SignInResult, nil
}

// SignUp implements commands.SessionStore.
func (f *FakeSessions) SignUp(ctx context.Context, email, password, name string) (session.AuthResult, error) {
	if f.SignUpErr != nil {
		return session.AuthResult{}, f.SignUpErr
	}
	if f.SignUpResult.Session != nil {
		f.mu.Lock()
		f.sess = f.SignUpResult.Session
		f.mu.Unlock()
	}
	return f.SignUpResult, nil
}

// SignOut implements commands.SessionStore.
func (f *FakeSessions) SignOut() error {
	if f.SignOutErr != nil {
		return f.SignOutErr
	}
	f.mu.Lock()
	f.sess = nil
	f.mu.Unlock()
	return nil
}

// FakeNavigator records redirects.
type FakeNavigator struct {
	mu    sync.Mutex
	Paths []string
}

// RedirectTo implements nav.Navigator.
func (f *FakeNavigator) RedirectTo(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Paths = append(f.Paths, path)
}

// Redirects returns the recorded redirect targets.
func (f *FakeNavigator) Redirects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Paths))
	copy(out, f.Paths)
	return out
}
