// Package cli assembles the chaintool command tree, wires the subcommand
// dependencies over the OS filesystem, and configures logging and optional
// profiling from command-line flags.
package cli
