package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"taskdeck/internal/dashboard"
	"taskdeck/internal/exitcode"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command: a partial update of title and/or
// description on an existing task.
type EditCmd struct {
	title    string
	desc     string
	titleSet bool
	descSet  bool
}

// SetFields sets the edit flags (for testing).
func (c *EditCmd) SetFields(title *string, desc *string) {
	if title != nil {
		c.title = *title
		c.titleSet = true
	}
	if desc != nil {
		c.desc = *desc
		c.descSet = true
	}
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string     { return "taskdeck edit [--title <text>] [--desc <text>] <id>" }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Func("title", "", func(v string) error {
		c.title = v
		c.titleSet = true
		return nil
	})
	fs.Func("desc", "", func(v string) error {
		c.desc = v
		c.descSet = true
		return nil
	})
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, ok := parseTaskID(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	if !c.titleSet && !c.descSet {
		fmt.Fprintln(errOut, "error: nothing to update (use --title and/or --desc)")
		return exitcode.UserError
	}

	// Load the current record so the form starts from the task's values,
	// then overlay only the fields the user supplied.
	sess := env.Sessions.Current()
	task, err := env.Svc.Get(ctx, sess.User.ID, id)
	if err != nil {
		return fail(errOut, err)
	}

	form := dashboard.NewForm()
	form.BeginEdit(task)
	if c.titleSet {
		form.Title = c.title
	}
	if c.descSet {
		form.Description = c.desc
	}

	if err := form.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := dashboard.NewController(env.Svc, env.Sessions)
	ctrl.BeginEdit(task)
	if err := ctrl.Update(ctx, form.UpdateInput()); err != nil {
		return fail(errOut, err)
	}

	if !env.Cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseTaskID extracts the single integer task id argument.
func parseTaskID(args []string, errOut io.Writer) (int, bool) {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task id required")
		return 0, false
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return 0, false
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		fmt.Fprintf(errOut, "error: invalid task id: %s\n", args[0])
		return 0, false
	}
	return id, true
}
