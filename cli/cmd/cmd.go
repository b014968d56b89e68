package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/chaintool/runner"
	"github.com/ardnew/chaintool/shortcuts"
	"github.com/ardnew/chaintool/store"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Deps holds the collaborators every subcommand runs against. The CLI entry
// point constructs one set over the OS filesystem; tests substitute memory
// equivalents.
type Deps struct {
	Store     *store.Store
	Runner    *runner.Runner
	Shortcuts *shortcuts.Manager
	Stdout    io.Writer
	Stderr    io.Writer
}

type depsKey struct{}

// WithDeps returns a new context.Context carrying the subcommand
// collaborators.
func WithDeps(ctx context.Context, d *Deps) context.Context {
	return context.WithValue(ctx, depsKey{}, d)
}

func depsFrom(ctx context.Context) *Deps {
	d, ok := ctx.Value(depsKey{}).(*Deps)
	if !ok || d == nil {
		panic("internal error: subcommand dependencies unbound")
	}

	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}

	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}

	return d
}

// lock acquires the store's mutation lock, returning its release function.
func lock(ctx context.Context, d *Deps) (func(), error) {
	release, err := d.Store.Lock(ctx)
	if err != nil {
		return nil, ErrDataLocked.Wrap(err)
	}

	return release, nil
}
