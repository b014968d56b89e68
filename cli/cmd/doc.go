// Package cmd implements the chaintool subcommands: command and sequence
// management, placeholder printing, export/import, and shortcut scripts.
package cmd
