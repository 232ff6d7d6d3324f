package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/exitcode"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the signed-in principal.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Print the signed-in user" }
func (c *WhoamiCmd) Usage() string     { return "taskdeck whoami" }
func (c *WhoamiCmd) NeedsAuth() bool   { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	sess := env.Sessions.Current()
	if sess == nil {
		fmt.Fprintln(out, "not logged in")
		return exitcode.Success
	}
	if sess.User.Email != "" {
		fmt.Fprintf(out, "%s (%s)\n", sess.User.Email, sess.User.ID)
	} else {
		fmt.Fprintln(out, sess.User.ID)
	}
	return exitcode.Success
}
