package cli

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/ardnew/chaintool/cli/cmd"
	"github.com/ardnew/chaintool/pkg"
	"github.com/ardnew/chaintool/runner"
	"github.com/ardnew/chaintool/shortcuts"
	"github.com/ardnew/chaintool/store"
)

// CLI is the top-level command-line interface for chaintool.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Cmd       cmd.Cmd       `cmd:"" help:"Manage and run single commands"`
	Seq       cmd.Seq       `cmd:"" help:"Manage and run command sequences"`
	Print     cmd.Print     `cmd:"" help:"Show all commands and sequences"`
	Export    cmd.Export    `cmd:"" help:"Write commands and sequences to a YAML archive"`
	Import    cmd.Import    `cmd:"" help:"Load commands and sequences from a YAML archive"`
	Shortcuts cmd.Shortcuts `cmd:"" help:"Manage per-item launcher scripts"`
	Version   cmd.Version   `cmd:"" help:"Show program version"`
}

// Run executes the chaintool CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".json")

	vars := kong.Vars{}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	st, err := store.New(afero.NewOsFs(), pkg.DataDir())
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithDeps(ctx, &cmd.Deps{
		Store:     st,
		Runner:    runner.New(st),
		Shortcuts: shortcuts.New(st),
	})

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
