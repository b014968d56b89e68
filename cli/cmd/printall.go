package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/chaintool/lang"
)

// Print shows every stored command and sequence: each sequence with its
// member list, then the aggregated placeholder summary of all commands.
type Print struct{}

// Run executes the top-level print command.
func (c *Print) Run(ctx context.Context) error {
	d := depsFrom(ctx)

	seqNames, err := d.Store.Sequences()
	if err != nil {
		return err
	}

	if len(seqNames) > 0 {
		fmt.Fprintln(d.Stdout, headerStyle.Render("** sequences:"))

		for _, name := range seqNames {
			seq, err := d.Store.Sequence(name)
			if err != nil {
				return err
			}

			fmt.Fprintln(d.Stdout, itemStyle.Render("* "+name))

			for _, member := range seq.Commands {
				fmt.Fprintln(d.Stdout, member)
			}
		}

		fmt.Fprintln(d.Stdout)
	}

	cmdNames, err := d.Store.Commands()
	if err != nil {
		return err
	}

	named := make([]lang.NamedCommand, 0, len(cmdNames))
	cmdlines := make(map[string]string, len(cmdNames))

	for _, name := range cmdNames {
		cmd, err := d.Store.Command(name)
		if err != nil {
			return err
		}

		named = append(named, lang.NamedCommand{Name: name, Parsed: cmd.Parsed})
		cmdlines[name] = cmd.Cmdline
	}

	printModel(d.Stdout, lang.Summarize(named), cmdlines)

	return nil
}
