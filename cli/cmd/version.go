package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/chaintool/pkg"
)

// Version prints the program name and version.
type Version struct{}

// Run executes the version command.
func (c *Version) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	fmt.Fprintf(d.Stdout, "%s version %s\n", pkg.Name, pkg.Version)

	return nil
}
