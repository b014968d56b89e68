package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/chaintool/lang"
	"github.com/ardnew/chaintool/log"
	"github.com/ardnew/chaintool/store"
)

// Cmd groups the subcommands operating on single commands.
type Cmd struct {
	List  CmdList  `cmd:"" help:"List command names."`
	Set   CmdSet   `cmd:"" help:"Create or update a command from a commandline template."`
	Edit  CmdEdit  `cmd:"" help:"Interactively edit a command's commandline."`
	Print CmdPrint `cmd:"" help:"Show a command's commandline and placeholders."`
	Vals  CmdVals  `cmd:"" help:"Update a command's placeholder defaults and toggle values."`
	Del   CmdDel   `cmd:"" help:"Delete a command."`
	Run   CmdRun   `cmd:"" help:"Run a command with placeholder values."`
}

// CmdList lists the names of all stored commands.
type CmdList struct{}

// Run executes the cmd list command.
func (c *CmdList) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	names, err := d.Store.Commands()
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Fprintln(d.Stdout, name)
	}

	return nil
}

// CmdSet creates or updates one command.
type CmdSet struct {
	Force bool `help:"Overwrite an existing command." short:"f"`
	Quiet bool `help:"Skip printing the command afterward." short:"q"`

	Name    string `arg:"" help:"Command name."`
	Cmdline string `arg:"" help:"Commandline template."`
}

// Run executes the cmd set command.
func (c *CmdSet) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	release, err := lock(ctx, d)
	if err != nil {
		return err
	}
	defer release()

	return setCommand(ctx, d, c.Name, c.Cmdline, c.Force, c.Quiet)
}

// setCommand is the shared create-or-update path used by set and edit.
func setCommand(
	ctx context.Context,
	d *Deps,
	name, cmdline string,
	overwrite, quiet bool,
) error {
	cmd, err := store.NewCommand(name, cmdline)
	if err != nil {
		return err
	}

	if err := d.Store.SaveCommand(cmd, overwrite); err != nil {
		return err
	}

	if err := d.Shortcuts.Sync(name, "cmd", true); err != nil {
		return err
	}

	log.InfoContext(ctx, "command set",
		slog.String("name", name), slog.String("cmdline", cmdline))

	fmt.Fprintf(d.Stdout, "Command %q set.\n", name)

	if !quiet {
		fmt.Fprintln(d.Stdout)
		printCommand(d.Stdout, name, cmd.Cmdline, cmd.Parsed)
	}

	return nil
}

// CmdEdit interactively edits one command's commandline, prefilled with the
// current text.
type CmdEdit struct {
	Quiet bool `help:"Skip printing the command afterward." short:"q"`

	Name string `arg:"" help:"Command name."`
}

// Run executes the cmd edit command.
func (c *CmdEdit) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	cmd, err := d.Store.Command(c.Name)
	if err != nil {
		return err
	}

	cmdline, err := editLine(ctx, "cmdline> ", cmd.Cmdline)
	if err != nil {
		return err
	}

	release, err := lock(ctx, d)
	if err != nil {
		return err
	}
	defer release()

	return setCommand(ctx, d, c.Name, cmdline, true, c.Quiet)
}

// CmdPrint shows one command's commandline and placeholder summary. The
// hidden dump flag switches to the line-oriented output consumed by the
// shell completion helper.
type CmdPrint struct {
	Dump string `default:"" enum:",run,vals" help:"Dump placeholders for completion." hidden:""`

	Name string `arg:"" help:"Command name."`
}

// Run executes the cmd print command.
func (c *CmdPrint) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	cmd, err := d.Store.Command(c.Name)
	if err != nil {
		return err
	}

	if c.Dump != "" {
		model := lang.Summarize([]lang.NamedCommand{{Name: c.Name, Parsed: cmd.Parsed}})
		dumpPlaceholders(d.Stdout, model, c.Dump == "run")

		return nil
	}

	printCommand(d.Stdout, c.Name, cmd.Cmdline, cmd.Parsed)

	return nil
}

// CmdVals updates a command's declared placeholder values: name=value sets a
// default, a bare name clears one, and +name=off:on replaces a toggle pair.
type CmdVals struct {
	Quiet bool `help:"Skip printing the command afterward." short:"q"`

	Name string   `arg:"" help:"Command name."`
	Args []string `arg:"" help:"Value updates (name, name=value, +name=off:on)."`
}

// Run executes the cmd vals command.
func (c *CmdVals) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	args, err := lang.ParseValsArgs(c.Args)
	if err != nil {
		return err
	}

	release, err := lock(ctx, d)
	if err != nil {
		return err
	}
	defer release()

	cmd, err := d.Store.Command(c.Name)
	if err != nil {
		return err
	}

	warnIrrelevant(d.Stderr, irrelevantValsArgs(args, cmd.Parsed))

	if err := cmd.Parsed.ApplyVals(args); err != nil {
		return err
	}

	return setCommand(ctx, d, c.Name, cmd.Parsed.Cmdline, true, c.Quiet)
}

// irrelevantValsArgs returns the display names of vals arguments that match
// no placeholder of the command.
func irrelevantValsArgs(args []lang.ValsArg, pc *lang.ParsedCommand) []string {
	var unused []string

	for _, arg := range args {
		if _, ok := pc.Param(arg.Display()); !ok {
			unused = append(unused, arg.Display())
		}
	}

	return unused
}

// CmdDel deletes one command.
type CmdDel struct {
	Force bool `help:"Succeed even if the command does not exist." short:"f"`

	Name string `arg:"" help:"Command name."`
}

// Run executes the cmd del command.
func (c *CmdDel) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	release, err := lock(ctx, d)
	if err != nil {
		return err
	}
	defer release()

	if err := d.Store.DeleteCommand(c.Name, c.Force); err != nil {
		return err
	}

	if err := d.Shortcuts.Sync(c.Name, "cmd", false); err != nil {
		return err
	}

	fmt.Fprintf(d.Stdout, "Command %q deleted.\n", c.Name)

	return nil
}

// CmdRun runs one command with runtime placeholder values.
type CmdRun struct {
	Name string   `arg:"" help:"Command name."`
	Args []string `arg:"" help:"Runtime values (name=value, +name)." optional:""`
}

// Run executes the cmd run command.
func (c *CmdRun) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	args, err := lang.ParseRunArgs(c.Args)
	if err != nil {
		return err
	}

	cmd, err := d.Store.Command(c.Name)
	if err != nil {
		return err
	}

	named := []lang.NamedCommand{{Name: c.Name, Parsed: cmd.Parsed}}
	warnIrrelevant(d.Stderr, lang.IrrelevantRunArgs(args, named))

	return d.Runner.RunCommand(ctx, c.Name, lang.BindRunArgs(args))
}
