// Package vtool implements the virtual tools: commands that run inside the
// chaintool process instead of spawning a shell. A commandline whose first
// word names a virtual tool is dispatched here; the word is matched against
// the unresolved commandline, so a placeholder can never select a tool.
package vtool

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/ardnew/chaintool/lang"
)

// Virtual tool names, matched against the first whitespace-delimited word of
// a commandline.
const (
	NameEnv  = "chaintool-env"
	NameCopy = "chaintool-copy"
	NameDel  = "chaintool-del"
)

// Predefined errors (sentinel values).
var (
	ErrUsage   = lang.NewError("bad virtual tool arguments")
	ErrUnknown = lang.NewError("unknown virtual tool")
)

// IsVirtual reports whether word names a virtual tool.
func IsVirtual(word string) bool {
	switch word {
	case NameEnv, NameCopy, NameDel:
		return true
	default:
		return false
	}
}

// Env carries the state a virtual tool invocation runs against: the
// filesystem for copy/del, the run's value map for env ops, and the writer
// for user-facing output.
type Env struct {
	Fs   afero.Fs
	Vals *lang.ValueMap
	Out  io.Writer
}

// Run dispatches one virtual tool invocation. For NameEnv, args are the raw
// words of the unresolved commandline; for NameCopy and NameDel they are the
// field-split words of the resolved commandline.
func (e *Env) Run(name string, args []string) error {
	switch name {
	case NameEnv:
		return e.envTool(args)
	case NameCopy:
		return e.copyTool(args)
	case NameDel:
		return e.delTool(args)
	default:
		return ErrUnknown.With(slog.String("tool", name))
	}
}

// envTool applies conditional placeholder assignments to the run's value
// map. Names that already hold a value are left alone; each assignment made
// is echoed so the user sees what later commands will receive.
func (e *Env) envTool(args []string) error {
	ops, err := lang.ParseEnvOps(args)
	if err != nil {
		return err
	}

	assigned, err := lang.ApplyEnvOps(ops, e.Vals)
	if err != nil {
		return err
	}

	for _, name := range assigned {
		value, _ := e.Vals.Value(name)
		fmt.Fprintf(e.Out, "%s=%s\n", name, value)
	}

	return nil
}

// copyTool copies one file, preserving its permission bits. It exists so
// sequences stay platform-independent where a bare cp would not be.
func (e *Env) copyTool(args []string) error {
	if len(args) != 2 {
		return ErrUsage.
			With(slog.String("tool", NameCopy)).
			Wrap(lang.NewError("takes two arguments: sourcepath and destpath"))
	}

	src, dst := args[0], args[1]

	data, err := afero.ReadFile(e.Fs, src)
	if err != nil {
		return lang.WrapError(err).With(slog.String("path", src))
	}

	mode := os.FileMode(0o644)
	if info, err := e.Fs.Stat(src); err == nil {
		mode = info.Mode().Perm()
	}

	if err := afero.WriteFile(e.Fs, dst, data, mode); err != nil {
		return lang.WrapError(err).With(slog.String("path", dst))
	}

	fmt.Fprintf(e.Out, "copied %q to %q\n", src, dst)

	return nil
}

// delTool deletes one file. A path that does not exist is a success: the
// tool asserts absence, not the act of deletion.
func (e *Env) delTool(args []string) error {
	if len(args) != 1 {
		return ErrUsage.
			With(slog.String("tool", NameDel)).
			Wrap(lang.NewError("takes one argument: filepath"))
	}

	path := args[0]

	if err := e.Fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return lang.WrapError(err).With(slog.String("path", path))
	}

	fmt.Fprintf(e.Out, "deleted %q\n", path)

	return nil
}

// EnvAssignments returns the env ops a commandline would apply, or nil when
// it does not invoke the env tool. The print engine uses this to show which
// placeholders a sequence sets for its later commands.
func EnvAssignments(pc *lang.ParsedCommand, words []string) []lang.EnvOp {
	if pc.LeadingWord() != NameEnv || len(words) < 2 {
		return nil
	}

	ops, err := lang.ParseEnvOps(words[1:])
	if err != nil {
		return nil
	}

	return ops
}
