package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/exitcode"
	"taskdeck/internal/nav"
)

func init() {
	Register(&SignupCmd{})
}

// SignupCmd implements the signup command.
type SignupCmd struct {
	email    string
	password string
	name     string
}

// SetDetails sets the account details (for testing).
func (c *SignupCmd) SetDetails(email, password, name string) {
	c.email = email
	c.password = password
	c.name = name
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return nil }
func (c *SignupCmd) Synopsis() string  { return "Create an account" }
func (c *SignupCmd) Usage() string {
	return "taskdeck signup --email <addr> --password <pw> [--name <name>]"
}
func (c *SignupCmd) NeedsAuth() bool { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.name, "name", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	email := strings.TrimSpace(c.email)
	if email == "" {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}
	if c.password == "" {
		fmt.Fprintln(errOut, "error: password required")
		return exitcode.UserError
	}

	res, err := env.Sessions.SignUp(ctx, email, c.password, strings.TrimSpace(c.name))
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	if res.Err != nil {
		fmt.Fprintf(errOut, "error: %s\n", res.Err.Message)
		return exitcode.AuthError
	}

	env.Nav.RedirectTo(nav.DashboardPath)
	if !env.Cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
