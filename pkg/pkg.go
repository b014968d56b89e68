//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
)

// Version is the semantic version of the chaintool module embedded at build
// time. It is printed by the CLI when users invoke the version subcommand.
//
//go:embed VERSION
var Version string

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "chaintool"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Save commandlines with substitutable arguments and chain them into sequences"
)
