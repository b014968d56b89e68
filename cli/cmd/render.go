package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"mvdan.cc/sh/v3/syntax"

	"github.com/ardnew/chaintool/lang"
)

// Display styles for placeholder summaries.
//
//nolint:gochecknoglobals
var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// quote renders a value the way the shell would need it typed. Values that
// cannot be quoted (control bytes) fall back to the raw string.
func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return s
	}

	return q
}

// printCommand writes one command's cmdline and placeholder summary in
// sections: required values, optional values with defaults, toggles.
func printCommand(w io.Writer, name, cmdline string, pc *lang.ParsedCommand) {
	fmt.Fprintln(w, headerStyle.Render("* commandline format:"))
	fmt.Fprintln(w, cmdline)

	model := lang.Summarize([]lang.NamedCommand{{Name: name, Parsed: pc}})
	printSections(w, model, false)
}

// printModel writes a multi-command placeholder summary: commands in order,
// then each section's groups annotated with the commands they apply to.
func printModel(w io.Writer, model *lang.PrintModel, cmdlines map[string]string) {
	fmt.Fprintln(w, headerStyle.Render("** commandline formats:"))

	for _, name := range model.Commands {
		fmt.Fprintln(w, itemStyle.Render("* "+name))

		if cl, ok := cmdlines[name]; ok {
			fmt.Fprintln(w, cl)
		}
	}

	printSections(w, model, len(model.Commands) > 1)
}

func printSections(w io.Writer, model *lang.PrintModel, showMembers bool) {
	section := func(title string, groups []lang.Group, render func(lang.Entry) string) {
		if len(groups) == 0 {
			return
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(title))

		for _, g := range groups {
			if showMembers {
				fmt.Fprintln(w, itemStyle.Render("* "+strings.Join(g.Commands, ", ")))
			}

			for _, e := range g.Entries {
				fmt.Fprintln(w, render(e))
			}
		}
	}

	section("* required values:", model.Required, renderRequired)
	section("* optional values with default:", model.Optional, renderOptional)
	section("* toggles with untoggled:toggled values:", model.Toggles, renderToggle)
}

func renderRequired(e lang.Entry) string {
	return e.Name
}

func renderOptional(e lang.Entry) string {
	if e.Common != nil {
		return fmt.Sprintf("%s = %s", e.Name, quote(*e.Common.Default))
	}

	parts := make([]string, 0, len(e.ByCommand))
	for _, v := range e.ByCommand {
		parts = append(parts, fmt.Sprintf("%s (%s)", quote(*v.Default), v.Command))
	}

	return e.Name + " = " + strings.Join(parts, ", ")
}

func renderToggle(e lang.Entry) string {
	display := "+" + e.Name

	if e.Common != nil {
		return fmt.Sprintf("%s = %s:%s",
			display, quote(e.Common.Off), quote(e.Common.On))
	}

	parts := make([]string, 0, len(e.ByCommand))
	for _, v := range e.ByCommand {
		parts = append(parts,
			fmt.Sprintf("%s:%s (%s)", quote(v.Off), quote(v.On), v.Command))
	}

	return display + " = " + strings.Join(parts, ", ")
}

// dumpPlaceholders writes the machine-readable placeholder listing consumed
// by the shell completion helper: one item per line, name=value for
// placeholders with one consistent default, bare name otherwise. In run form
// toggles print as bare +name; in vals form they print their off:on pair.
func dumpPlaceholders(w io.Writer, model *lang.PrintModel, forRun bool) {
	var values, toggles []lang.Entry

	for _, groups := range [][]lang.Group{model.Required, model.Optional} {
		for _, g := range groups {
			values = append(values, g.Entries...)
		}
	}

	for _, g := range model.Toggles {
		toggles = append(toggles, g.Entries...)
	}

	for _, e := range values {
		if e.Common != nil {
			fmt.Fprintf(w, "%s=%s\n", e.Name, *e.Common.Default)
		} else {
			fmt.Fprintln(w, e.Name)
		}
	}

	for _, e := range toggles {
		switch {
		case forRun:
			fmt.Fprintln(w, "+"+e.Name)
		case e.Common != nil:
			fmt.Fprintf(w, "+%s=%s:%s\n", e.Name, e.Common.Off, e.Common.On)
		default:
			fmt.Fprintf(w, "+%s=\n", e.Name)
		}
	}
}

// warnIrrelevant reports run or vals arguments that matched no placeholder.
// These never fail the operation.
func warnIrrelevant(w io.Writer, unused []string) {
	if len(unused) == 0 {
		return
	}

	fmt.Fprintln(w, warningStyle.Render(
		"ignoring arguments for unknown placeholders: "+strings.Join(unused, " ")))
}
