package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/chaintool/lang"
	"github.com/ardnew/chaintool/log"
	"github.com/ardnew/chaintool/runner"
	"github.com/ardnew/chaintool/store"
	"github.com/ardnew/chaintool/vtool"
)

// Seq groups the subcommands operating on sequences.
type Seq struct {
	List  SeqList  `cmd:"" help:"List sequence names."`
	Set   SeqSet   `cmd:"" help:"Create or update a sequence from an ordered command list."`
	Edit  SeqEdit  `cmd:"" help:"Interactively edit a sequence's command list."`
	Print SeqPrint `cmd:"" help:"Show a sequence's commands and their placeholders."`
	Vals  SeqVals  `cmd:"" help:"Update placeholder values across a sequence's commands."`
	Del   SeqDel   `cmd:"" help:"Delete a sequence."`
	Run   SeqRun   `cmd:"" help:"Run a sequence's commands in order."`
}

// SeqList lists the names of all stored sequences.
type SeqList struct{}

// Run executes the seq list command.
func (c *SeqList) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	names, err := d.Store.Sequences()
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Fprintln(d.Stdout, name)
	}

	return nil
}

// SeqSet creates or updates one sequence.
type SeqSet struct {
	Force         bool `help:"Overwrite an existing sequence." short:"f"`
	IgnoreMissing bool `help:"Allow member commands that do not exist yet."`
	Quiet         bool `help:"Skip printing the sequence afterward." short:"q"`

	Name     string   `arg:"" help:"Sequence name."`
	Commands []string `arg:"" help:"Member command names, in run order."`
}

// Run executes the seq set command.
func (c *SeqSet) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	release, err := lock(ctx, d)
	if err != nil {
		return err
	}
	defer release()

	return setSequence(
		ctx, d, c.Name, c.Commands, c.Force, c.IgnoreMissing, c.Quiet,
	)
}

// setSequence is the shared create-or-update path used by set and edit.
func setSequence(
	ctx context.Context,
	d *Deps,
	name string,
	commands []string,
	overwrite, ignoreMissing, quiet bool,
) error {
	if missing := missingMembers(d.Store, commands); len(missing) > 0 {
		if !ignoreMissing {
			return ErrSeqMembers.
				With(slog.String("commands", strings.Join(missing, " ")))
		}

		warnIrrelevant(d.Stderr, missing)
	}

	seq := &store.Sequence{Name: name, Commands: commands}
	if err := d.Store.SaveSequence(seq, overwrite); err != nil {
		return err
	}

	if err := d.Shortcuts.Sync(name, "seq", true); err != nil {
		return err
	}

	log.InfoContext(ctx, "sequence set",
		slog.String("name", name),
		slog.String("commands", strings.Join(commands, " ")))

	fmt.Fprintf(d.Stdout, "Sequence %q set.\n", name)

	if !quiet {
		fmt.Fprintln(d.Stdout)

		return printSequence(d, seq)
	}

	return nil
}

func missingMembers(st *store.Store, commands []string) []string {
	var missing []string

	for _, name := range commands {
		if !st.HasCommand(name) {
			missing = append(missing, name)
		}
	}

	return missing
}

// printSequence shows the member command list and the aggregated placeholder
// summary. Members that do not exist yet are listed but contribute no
// placeholders.
func printSequence(d *Deps, seq *store.Sequence) error {
	named := make([]lang.NamedCommand, 0, len(seq.Commands))
	cmdlines := make(map[string]string, len(seq.Commands))
	envSet := make(map[string]string)

	for _, member := range seq.Commands {
		cmd, err := d.Store.Command(member)
		if err != nil {
			named = append(named, lang.NamedCommand{Name: member})

			continue
		}

		named = append(named, lang.NamedCommand{Name: member, Parsed: cmd.Parsed})
		cmdlines[member] = cmd.Cmdline

		for _, op := range vtool.EnvAssignments(cmd.Parsed, strings.Fields(cmd.Cmdline)) {
			if _, ok := envSet[op.Name]; !ok {
				envSet[op.Name] = member
			}
		}
	}

	printModel(d.Stdout, lang.Summarize(named), cmdlines)
	printEnvSet(d.Stdout, envSet)

	return nil
}

// printEnvSet notes which placeholders an earlier chaintool-env member binds
// for the rest of the run, so they read as provided rather than required.
func printEnvSet(w io.Writer, envSet map[string]string) {
	if len(envSet) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("* values set during the run:"))

	for _, name := range slices.Sorted(maps.Keys(envSet)) {
		fmt.Fprintf(w, "%s (by %s)\n", name, envSet[name])
	}
}

// SeqEdit interactively edits one sequence's command list, prefilled with
// the current space-separated member names.
type SeqEdit struct {
	IgnoreMissing bool `help:"Allow member commands that do not exist yet."`
	Quiet         bool `help:"Skip printing the sequence afterward." short:"q"`

	Name string `arg:"" help:"Sequence name."`
}

// Run executes the seq edit command.
func (c *SeqEdit) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	seq, err := d.Store.Sequence(c.Name)
	if err != nil {
		return err
	}

	line, err := editLine(ctx, "commands> ", strings.Join(seq.Commands, " "))
	if err != nil {
		return err
	}

	release, err := lock(ctx, d)
	if err != nil {
		return err
	}
	defer release()

	return setSequence(
		ctx, d, c.Name, strings.Fields(line), true, c.IgnoreMissing, c.Quiet,
	)
}

// SeqPrint shows one sequence's commands and their aggregated placeholders.
type SeqPrint struct {
	Dump string `default:"" enum:",run,vals" help:"Dump placeholders for completion." hidden:""`

	Name string `arg:"" help:"Sequence name."`
}

// Run executes the seq print command.
func (c *SeqPrint) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	seq, err := d.Store.Sequence(c.Name)
	if err != nil {
		return err
	}

	if c.Dump != "" {
		named, err := d.Store.NamedCommands(seq.Commands)
		if err != nil {
			return err
		}

		dumpPlaceholders(d.Stdout, lang.Summarize(named), c.Dump == "run")

		return nil
	}

	return printSequence(d, seq)
}

// SeqVals applies placeholder value updates to every member command that
// uses the named placeholders.
type SeqVals struct {
	Quiet bool `help:"Skip printing the sequence afterward." short:"q"`

	Name string   `arg:"" help:"Sequence name."`
	Args []string `arg:"" help:"Value updates (name, name=value, +name=off:on)."`
}

// Run executes the seq vals command.
func (c *SeqVals) Run(ctx context.Context) error {
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

	seq, err := d.Store.Sequence(c.Name)
	if err != nil {
		return err
	}

	used := make(map[string]struct{})

	for _, member := range seq.Commands {
		cmd, err := d.Store.Command(member)
		if err != nil {
			return err
		}

		relevant := false

		for _, arg := range args {
			if _, ok := cmd.Parsed.Param(arg.Display()); ok {
				used[arg.Display()] = struct{}{}
				relevant = true
			}
		}

		if !relevant {
			continue
		}

		if err := cmd.Parsed.ApplyVals(args); err != nil {
			return err
		}

		fresh, err := store.NewCommand(member, cmd.Parsed.Cmdline)
		if err != nil {
			return err
		}

		if err := d.Store.SaveCommand(fresh, true); err != nil {
			return err
		}
	}

	var unused []string

	for _, arg := range args {
		if _, ok := used[arg.Display()]; !ok {
			unused = append(unused, arg.Display())
		}
	}

	warnIrrelevant(d.Stderr, unused)

	if !c.Quiet {
		return printSequence(d, seq)
	}

	return nil
}

// SeqDel deletes one sequence. Member commands are untouched.
type SeqDel struct {
	Force bool `help:"Succeed even if the sequence does not exist." short:"f"`

	Name string `arg:"" help:"Sequence name."`
}

// Run executes the seq del command.
func (c *SeqDel) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	release, err := lock(ctx, d)
	if err != nil {
		return err
	}
	defer release()

	if err := d.Store.DeleteSequence(c.Name, c.Force); err != nil {
		return err
	}

	if err := d.Shortcuts.Sync(c.Name, "seq", false); err != nil {
		return err
	}

	fmt.Fprintf(d.Stdout, "Sequence %q deleted.\n", c.Name)

	return nil
}

// SeqRun runs one sequence's commands in order with shared runtime values.
type SeqRun struct {
	IgnoreErrors bool     `help:"Keep running past failing commands." short:"i"`
	Skip         []string `help:"Skip the named member command."      short:"s"`

	Name string   `arg:"" help:"Sequence name."`
	Args []string `arg:"" help:"Runtime values (name=value, +name)." optional:""`
}

// Run executes the seq run command.
func (c *SeqRun) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	args, err := lang.ParseRunArgs(c.Args)
	if err != nil {
		return err
	}

	seq, err := d.Store.Sequence(c.Name)
	if err != nil {
		return err
	}

	named, err := d.Store.NamedCommands(seq.Commands)
	if err != nil {
		return err
	}

	warnIrrelevant(d.Stderr, lang.IrrelevantRunArgs(args, named))

	return d.Runner.RunSequence(ctx, c.Name, lang.BindRunArgs(args), runner.SeqOptions{
		IgnoreErrors: c.IgnoreErrors,
		Skip:         c.Skip,
	})
}
