// Package runner executes stored commands and sequences: it resolves each
// commandline against the run's value map, dispatches virtual tools, and
// spawns everything else through the shell.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/shell"

	"github.com/ardnew/chaintool/lang"
	"github.com/ardnew/chaintool/log"
	"github.com/ardnew/chaintool/store"
	"github.com/ardnew/chaintool/vtool"
)

// ExecFunc spawns one resolved commandline and blocks until it exits. The
// returned error carries the exit status when the process ran but failed.
type ExecFunc func(ctx context.Context, cmdline string) error

// Runner executes commands against a store. The filesystem, output streams,
// and process spawner are injectable for tests; zero fields are filled with
// OS-backed defaults by [New].
type Runner struct {
	Store *store.Store
	Fs    afero.Fs
	Out   io.Writer
	Err   io.Writer
	Exec  ExecFunc

	log log.Logger
}

// New creates a Runner with OS-backed defaults: the store's filesystem,
// standard output streams, and sh -c process execution.
func New(st *store.Store) *Runner {
	r := &Runner{
		Store: st,
		Fs:    st.Fs(),
		Out:   os.Stdout,
		Err:   os.Stderr,
		log:   log.With(slog.String("component", "runner")),
	}
	r.Exec = r.shellExec

	return r
}

// shellExec runs a resolved commandline through sh -c, wired to the process
// stdio. Context cancellation kills the child.
func (r *Runner) shellExec(ctx context.Context, cmdline string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", cmdline)
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Out
	cmd.Stderr = r.Err

	return cmd.Run()
}

// cmdlineStyle renders the commandline echoed before each execution.
//
//nolint:gochecknoglobals
var cmdlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

// RunCommand executes one stored command against the run's value map.
//
// The first word of the unresolved commandline selects a virtual tool, if
// any; a placeholder can never become a tool name. The env tool receives the
// raw unresolved argument words so its value sources resolve under the
// restricted env-op rules. Every other commandline resolves fully first, and
// an unresolved placeholder aborts before anything is spawned.
func (r *Runner) RunCommand(ctx context.Context, name string, vals *lang.ValueMap) error {
	cmd, err := r.Store.Command(name)
	if err != nil {
		return err
	}

	venv := &vtool.Env{Fs: r.Fs, Vals: vals, Out: r.Out}

	word := cmd.Parsed.LeadingWord()
	if word == vtool.NameEnv {
		fmt.Fprintln(r.Out, cmdlineStyle.Render(cmd.Cmdline))

		return r.wrap(name, venv.Run(word, strings.Fields(cmd.Cmdline)[1:]))
	}

	resolved, err := lang.Resolve(cmd.Parsed, vals)
	if err != nil {
		return r.wrap(name, err)
	}

	fmt.Fprintln(r.Out, cmdlineStyle.Render(resolved))

	if vtool.IsVirtual(word) {
		fields, err := shell.Fields(resolved, nil)
		if err != nil {
			return r.wrap(name, err)
		}

		return r.wrap(name, venv.Run(word, fields[1:]))
	}

	r.log.Debug("spawn", slog.String("command", name), slog.String("cmdline", resolved))

	return r.wrap(name, r.Exec(ctx, resolved))
}

// SeqOptions adjust one sequence run.
type SeqOptions struct {
	IgnoreErrors bool     // keep running past a failing command
	Skip         []string // command names excluded from this run
}

// RunSequence executes a sequence's commands strictly in order, all sharing
// one value map. A failing command aborts the run unless IgnoreErrors is
// set, in which case the first failure is still reported after the run.
func (r *Runner) RunSequence(
	ctx context.Context,
	name string,
	vals *lang.ValueMap,
	opts SeqOptions,
) error {
	seq, err := r.Store.Sequence(name)
	if err != nil {
		return err
	}

	skip := make(map[string]struct{}, len(opts.Skip))
	for _, s := range opts.Skip {
		skip[s] = struct{}{}
	}

	var firstErr error

	for _, member := range seq.Commands {
		if _, ok := skip[member]; ok {
			r.log.Info("skip", slog.String("command", member))

			continue
		}

		if err := r.RunCommand(ctx, member, vals); err != nil {
			if !opts.IgnoreErrors {
				return err
			}

			r.log.Warn("command failed; continuing",
				slog.String("command", member), slog.Any("error", err))

			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// wrap decorates an execution error with the failing command's name.
func (r *Runner) wrap(name string, err error) error {
	if err == nil {
		return nil
	}

	return lang.WrapError(err).With(slog.String("command", name))
}
