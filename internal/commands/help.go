package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdeck help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck                                           List tasks
  taskdeck list [--status all|pending|completed] [--sort created|title]
  taskdeck add [--desc <text>] <title...>
  taskdeck show <id>
  taskdeck edit [--title <text>] [--desc <text>] <id>
  taskdeck done <id>                                 Toggle completed
  taskdeck rm <id>
  taskdeck signup --email <addr> --password <pw> [--name <name>]
  taskdeck login [--email <addr>] [--password <pw>]
  taskdeck logout
  taskdeck whoami
  taskdeck help
  taskdeck version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
