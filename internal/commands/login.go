package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskdeck/internal/exitcode"
	"taskdeck/internal/nav"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command: email/password sign-in against the
// auth endpoints, storing the issued bearer token and session locally.
type LoginCmd struct {
	email    string
	password string
}

// SetCredentials sets the credentials (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in" }
func (c *LoginCmd) Usage() string     { return "taskdeck login [--email <addr>] [--password <pw>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if env.Sessions.Current() != nil && env.Cfg.HasToken() {
		if !env.Cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	email := strings.TrimSpace(c.email)
	if email == "" {
		email = prompt(errOut, "email: ")
	}
	if email == "" {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}
	password := c.password
	if password == "" {
		password = prompt(errOut, "password: ")
	}
	if password == "" {
		fmt.Fprintln(errOut, "error: password required")
		return exitcode.UserError
	}

	res, err := env.Sessions.SignIn(ctx, email, password)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	if res.Err != nil {
		// Expected auth failure: rendered inline, not thrown.
		fmt.Fprintf(errOut, "error: %s\n", res.Err.Message)
		return exitcode.AuthError
	}

	env.Nav.RedirectTo(nav.DashboardPath)
	if !env.Cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// prompt reads one line from stdin after printing the label to errOut.
func prompt(errOut io.Writer, label string) string {
	fmt.Fprint(errOut, label)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}
