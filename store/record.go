package store

import (
	"github.com/ardnew/chaintool/lang"
)

// Command is one stored commandline template. Cmdline is the source of
// truth; Args and ToggleArgs are derived caches written alongside it so
// external tooling (shell completion) can read placeholder names without a
// parser. Parsed is populated on load and never serialized.
type Command struct {
	Name       string              `yaml:"-"`
	Cmdline    string              `yaml:"cmdline"`
	Args       map[string]*string  `yaml:"args"`
	ToggleArgs map[string][]string `yaml:"toggle_args"`

	Parsed *lang.ParsedCommand `yaml:"-"`
}

// NewCommand parses cmdline and builds the full record, including the
// derived placeholder caches.
func NewCommand(name, cmdline string) (*Command, error) {
	pc, err := lang.Parse(cmdline)
	if err != nil {
		return nil, err
	}

	cmd := &Command{
		Name:       name,
		Cmdline:    cmdline,
		Args:       make(map[string]*string),
		ToggleArgs: make(map[string][]string),
		Parsed:     pc,
	}

	for _, p := range pc.Params() {
		if p.Toggle {
			cmd.ToggleArgs[p.Display()] = []string{p.Off, p.On}
		} else {
			cmd.Args[p.Name] = p.Default
		}
	}

	return cmd, nil
}

// Sequence is one stored ordered list of command names. Member names are
// validated for form at save time but intentionally not for existence: a
// sequence may reference commands defined later.
type Sequence struct {
	Name     string   `yaml:"-"`
	Commands []string `yaml:"commands"`
}
