package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/chaintool/log"
	"github.com/ardnew/chaintool/xfer"
)

// Export writes stored commands and sequences to a YAML archive.
type Export struct {
	Commands  []string `help:"Export only the named commands."  short:"c"`
	Sequences []string `help:"Export only the named sequences." short:"s"`

	File string `arg:"" help:"Archive path, or - for stdout."`
}

// Run executes the export command.
func (c *Export) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	w := d.Stdout

	if c.File != "-" {
		f, err := os.Create(c.File)
		if err != nil {
			return ErrOpenFile.Wrap(err).With(slog.String("path", c.File))
		}
		defer f.Close()

		w = f
	}

	if err := xfer.Export(d.Store, w, c.Commands, c.Sequences); err != nil {
		return err
	}

	log.InfoContext(ctx, "exported archive", slog.String("path", c.File))

	if c.File != "-" {
		fmt.Fprintf(d.Stdout, "Exported to %q.\n", c.File)
	}

	return nil
}

// Import loads commands and sequences from a YAML archive. The whole archive
// is validated before anything is written.
type Import struct {
	Overwrite bool `help:"Replace items that already exist." short:"o"`

	File string `arg:"" help:"Archive path, or - for stdin."`
}

// Run executes the import command.
func (c *Import) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	var r io.Reader = os.Stdin

	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return ErrOpenFile.Wrap(err).With(slog.String("path", c.File))
		}
		defer f.Close()

		r = f
	}

	release, err := lock(ctx, d)
	if err != nil {
		return err
	}
	defer release()

	if err := xfer.Import(d.Store, r, c.Overwrite); err != nil {
		return err
	}

	log.InfoContext(ctx, "imported archive", slog.String("path", c.File))
	fmt.Fprintf(d.Stdout, "Imported from %q.\n", c.File)

	return nil
}
