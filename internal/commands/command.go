// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/nav"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

// SessionStore is the slice of the session collaborator commands use.
// session.Store satisfies it; tests substitute testutil.FakeSessions.
type SessionStore interface {
	Current() *session.Session
	SignIn(ctx context.Context, email, password string) (session.AuthResult, error)
	SignUp(ctx context.Context, email, password, name string) (session.AuthResult, error)
	SignOut() error
}

// Env carries the collaborators a command may need. Svc is nil for
// commands that don't need auth.
type Env struct {
	Cfg      *config.Config
	Svc      service.Service
	Sessions SessionStore
	Nav      nav.Navigator
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a signed-in session.
	// Commands like help, version, login, signup, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// env is always provided; env.Svc is nil if NeedsAuth() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// fail renders a service error and maps it to an exit code.
func fail(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		fmt.Fprintln(errOut, "error: not logged in (run: taskdeck login)")
		return exitcode.AuthError
	case errors.Is(err, service.ErrSessionExpired):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
