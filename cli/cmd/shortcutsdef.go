package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/chaintool/log"
)

// Shortcuts groups the subcommands managing per-item launcher scripts.
type Shortcuts struct {
	Enable  ShortcutsEnable  `cmd:"" help:"Write a launcher script for every command and sequence."`
	Disable ShortcutsDisable `cmd:"" help:"Remove all launcher scripts."`
}

// ShortcutsEnable writes one launcher script per stored item and prints the
// PATH entry needed to use them.
type ShortcutsEnable struct{}

// Run executes the shortcuts enable command.
func (c *ShortcutsEnable) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	release, err := lock(ctx, d)
	if err != nil {
		return err
	}
	defer release()

	if err := d.Shortcuts.Enable(); err != nil {
		return err
	}

	log.InfoContext(ctx, "shortcuts enabled")

	fmt.Fprintf(d.Stdout, "Shortcut scripts written to %s\n", d.Shortcuts.Dir())
	fmt.Fprintln(d.Stdout, "To use them, put that directory on your PATH:")
	fmt.Fprintf(d.Stdout, "  export PATH=%q\n",
		d.Shortcuts.PathWith(os.Getenv("PATH")))

	return nil
}

// ShortcutsDisable removes every launcher script.
type ShortcutsDisable struct{}

// Run executes the shortcuts disable command.
func (c *ShortcutsDisable) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	release, err := lock(ctx, d)
	if err != nil {
		return err
	}
	defer release()

	if err := d.Shortcuts.Disable(); err != nil {
		return err
	}

	log.InfoContext(ctx, "shortcuts disabled")
	fmt.Fprintln(d.Stdout, "Shortcut scripts removed.")

	return nil
}
