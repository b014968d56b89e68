// Package xfer frames commands and sequences as a single portable YAML
// archive for export and import between chaintool installations.
package xfer

import (
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/chaintool/lang"
	"github.com/ardnew/chaintool/pkg"
	"github.com/ardnew/chaintool/store"
)

// Predefined errors (sentinel values).
var (
	ErrBadArchive = lang.NewError("malformed archive")
	ErrInvalid    = lang.NewError("archive failed validation; nothing imported")
)

// Archive is the exported document: every item as name plus source text.
// Derived placeholder caches are not exported; import rebuilds them.
type Archive struct {
	Commands  []Command  `yaml:"commands"`
	Sequences []Sequence `yaml:"sequences"`
}

// Command is one archived command record.
type Command struct {
	Name    string `yaml:"name"`
	Cmdline string `yaml:"cmdline"`
}

// Sequence is one archived sequence record.
type Sequence struct {
	Name     string   `yaml:"name"`
	Commands []string `yaml:"commands"`
}

// Export writes the named commands and sequences to w as one YAML document.
// Empty name slices select everything of that kind.
func Export(st *store.Store, w io.Writer, commands, sequences []string) error {
	var err error

	if len(commands) == 0 {
		if commands, err = st.Commands(); err != nil {
			return err
		}
	}

	if len(sequences) == 0 {
		if sequences, err = st.Sequences(); err != nil {
			return err
		}
	}

	var ar Archive

	for _, name := range commands {
		cmd, err := st.Command(name)
		if err != nil {
			return err
		}

		ar.Commands = append(ar.Commands, Command{Name: name, Cmdline: cmd.Cmdline})
	}

	for _, name := range sequences {
		seq, err := st.Sequence(name)
		if err != nil {
			return err
		}

		ar.Sequences = append(ar.Sequences, Sequence{Name: name, Commands: seq.Commands})
	}

	doc, err := yaml.Marshal(ar)
	if err != nil {
		return ErrBadArchive.Wrap(err)
	}

	_, err = w.Write(doc)

	return err
}

// Import reads an archive from r and stores its items. The whole archive
// validates before anything is written: every cmdline must parse, every name
// must be legal and unique within the archive, and, without overwrite, no
// name may already exist in the store. Validation failures are collected and
// reported together; a failed import writes nothing.
func Import(st *store.Store, r io.Reader, overwrite bool) error {
	doc, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	var ar Archive
	if err := yaml.Unmarshal(doc, &ar); err != nil {
		return ErrBadArchive.Wrap(err)
	}

	commands, errs := validate(st, &ar, overwrite)
	if !errs.IsZero() {
		return ErrInvalid.Wrap(errs)
	}

	for _, cmd := range commands {
		if err := st.SaveCommand(cmd, overwrite); err != nil {
			return err
		}
	}

	for _, seq := range ar.Sequences {
		record := &store.Sequence{Name: seq.Name, Commands: seq.Commands}
		if err := st.SaveSequence(record, overwrite); err != nil {
			return err
		}
	}

	return nil
}

// validate checks every archive item, returning the parsed command records
// ready to store plus the full chain of validation failures.
func validate(st *store.Store, ar *Archive, overwrite bool) ([]*store.Command, pkg.Error) {
	var errs pkg.Error

	seen := make(map[string]struct{})

	claim := func(name string) {
		if !store.ValidItemName(name) {
			errs = errs.Wrap(store.ErrBadItemName.With(slog.String("name", name)))

			return
		}

		if _, dup := seen[name]; dup {
			errs = errs.Wrapf("duplicate archive item name: %s", name)
		}

		seen[name] = struct{}{}
	}

	commands := make([]*store.Command, 0, len(ar.Commands))

	for _, item := range ar.Commands {
		claim(item.Name)

		cmd, err := store.NewCommand(item.Name, item.Cmdline)
		if err != nil {
			errs = errs.Wrapf("command %s: %w", item.Name, err)

			continue
		}

		if !overwrite && st.HasCommand(item.Name) {
			errs = errs.Wrap(store.ErrExists.With(slog.String("name", item.Name)))
		}

		if st.HasSequence(item.Name) {
			errs = errs.Wrap(store.ErrNameConflict.With(slog.String("name", item.Name)))
		}

		commands = append(commands, cmd)
	}

	for _, item := range ar.Sequences {
		claim(item.Name)

		if !overwrite && st.HasSequence(item.Name) {
			errs = errs.Wrap(store.ErrExists.With(slog.String("name", item.Name)))
		}

		if st.HasCommand(item.Name) {
			errs = errs.Wrap(store.ErrNameConflict.With(slog.String("name", item.Name)))
		}
	}

	return commands, errs
}
