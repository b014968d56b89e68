package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/ardnew/chaintool/lang"
	"github.com/ardnew/chaintool/log"
)

// Store persists commands and sequences as one YAML document per item under
// the data directory:
//
//	<root>/commands/<name>
//	<root>/sequences/<name>
//
// Commands and sequences share one namespace: an item name identifies at
// most one of the two. The filesystem is injected so tests run on memory.
type Store struct {
	fs   afero.Fs
	root string
	log  log.Logger
}

// New creates a Store rooted at dir, creating the item directories if
// needed.
func New(fsys afero.Fs, dir string) (*Store, error) {
	s := &Store{
		fs:   fsys,
		root: dir,
		log:  log.With(slog.String("component", "store")),
	}

	for _, sub := range []string{s.commandsDir(), s.sequencesDir(), s.ShortcutsDir()} {
		if err := s.fs.MkdirAll(sub, 0o755); err != nil {
			return nil, lang.WrapError(err).With(slog.String("dir", sub))
		}
	}

	return s, nil
}

// Root returns the store's data directory.
func (s *Store) Root() string { return s.root }

// Fs returns the store's filesystem handle.
func (s *Store) Fs() afero.Fs { return s.fs }

func (s *Store) commandsDir() string  { return filepath.Join(s.root, "commands") }
func (s *Store) sequencesDir() string { return filepath.Join(s.root, "sequences") }

// ShortcutsDir returns the directory holding PATH wrapper scripts.
func (s *Store) ShortcutsDir() string { return filepath.Join(s.root, "shortcuts") }

// ValidItemName reports whether name is usable as a command or sequence
// name: nonempty, no whitespace, no path separators, and not a dotfile.
func ValidItemName(name string) bool {
	if name == "" || name[0] == '.' {
		return false
	}

	return !strings.ContainsAny(name, " \t\n\r/\\")
}

// HasCommand reports whether a command with the given name exists.
func (s *Store) HasCommand(name string) bool {
	ok, _ := afero.Exists(s.fs, filepath.Join(s.commandsDir(), name))

	return ok
}

// HasSequence reports whether a sequence with the given name exists.
func (s *Store) HasSequence(name string) bool {
	ok, _ := afero.Exists(s.fs, filepath.Join(s.sequencesDir(), name))

	return ok
}

// SaveCommand writes a command record. Without overwrite, an existing
// command of the same name is an [ErrExists] error. A sequence of the same
// name is always an [ErrNameConflict] error.
func (s *Store) SaveCommand(cmd *Command, overwrite bool) error {
	if !ValidItemName(cmd.Name) {
		return ErrBadItemName.With(slog.String("name", cmd.Name))
	}

	if s.HasSequence(cmd.Name) {
		return ErrNameConflict.
			With(slog.String("name", cmd.Name), slog.String("existing", "sequence"))
	}

	if !overwrite && s.HasCommand(cmd.Name) {
		return ErrExists.With(slog.String("name", cmd.Name))
	}

	s.log.Debug("save command",
		slog.String("name", cmd.Name), slog.String("cmdline", cmd.Cmdline))

	return s.writeRecord(filepath.Join(s.commandsDir(), cmd.Name), cmd)
}

// Command loads one command by name, re-parsing its cmdline. The stored
// derived caches are discarded in favor of the fresh parse.
func (s *Store) Command(name string) (*Command, error) {
	var cmd Command

	if err := s.readRecord(filepath.Join(s.commandsDir(), name), &cmd); err != nil {
		if os.IsNotExist(err) {
			return nil, s.notFound(name)
		}

		return nil, ErrBadRecord.With(slog.String("name", name)).Wrap(err)
	}

	fresh, err := NewCommand(name, cmd.Cmdline)
	if err != nil {
		return nil, ErrBadRecord.With(slog.String("name", name)).Wrap(err)
	}

	return fresh, nil
}

// DeleteCommand removes a command. A missing command is an error unless
// missingOK is set.
func (s *Store) DeleteCommand(name string, missingOK bool) error {
	err := s.fs.Remove(filepath.Join(s.commandsDir(), name))
	if err != nil && os.IsNotExist(err) {
		if missingOK {
			return nil
		}

		return s.notFound(name)
	}

	return err
}

// Commands returns the sorted names of all stored commands.
func (s *Store) Commands() ([]string, error) {
	return s.listDir(s.commandsDir())
}

// SaveSequence writes a sequence record. Member command names are validated
// for form only; referencing a not-yet-defined command is allowed.
func (s *Store) SaveSequence(seq *Sequence, overwrite bool) error {
	if !ValidItemName(seq.Name) {
		return ErrBadItemName.With(slog.String("name", seq.Name))
	}

	for _, member := range seq.Commands {
		if !ValidItemName(member) {
			return ErrBadItemName.
				With(slog.String("name", seq.Name), slog.String("member", member))
		}
	}

	if s.HasCommand(seq.Name) {
		return ErrNameConflict.
			With(slog.String("name", seq.Name), slog.String("existing", "command"))
	}

	if !overwrite && s.HasSequence(seq.Name) {
		return ErrExists.With(slog.String("name", seq.Name))
	}

	s.log.Debug("save sequence",
		slog.String("name", seq.Name),
		slog.String("commands", strings.Join(seq.Commands, " ")))

	return s.writeRecord(filepath.Join(s.sequencesDir(), seq.Name), seq)
}

// Sequence loads one sequence by name.
func (s *Store) Sequence(name string) (*Sequence, error) {
	var seq Sequence

	if err := s.readRecord(filepath.Join(s.sequencesDir(), name), &seq); err != nil {
		if os.IsNotExist(err) {
			return nil, s.notFound(name)
		}

		return nil, ErrBadRecord.With(slog.String("name", name)).Wrap(err)
	}

	seq.Name = name

	return &seq, nil
}

// DeleteSequence removes a sequence. A missing sequence is an error unless
// missingOK is set.
func (s *Store) DeleteSequence(name string, missingOK bool) error {
	err := s.fs.Remove(filepath.Join(s.sequencesDir(), name))
	if err != nil && os.IsNotExist(err) {
		if missingOK {
			return nil
		}

		return s.notFound(name)
	}

	return err
}

// Sequences returns the sorted names of all stored sequences.
func (s *Store) Sequences() ([]string, error) {
	return s.listDir(s.sequencesDir())
}

// NamedCommands loads the given commands in order for placeholder
// summarization.
func (s *Store) NamedCommands(names []string) ([]lang.NamedCommand, error) {
	out := make([]lang.NamedCommand, 0, len(names))

	for _, name := range names {
		cmd, err := s.Command(name)
		if err != nil {
			return nil, err
		}

		out = append(out, lang.NamedCommand{Name: name, Parsed: cmd.Parsed})
	}

	return out, nil
}

func (s *Store) writeRecord(path string, record any) error {
	doc, err := yaml.Marshal(record)
	if err != nil {
		return lang.WrapError(err).With(slog.String("path", path))
	}

	return afero.WriteFile(s.fs, path, doc, 0o644)
}

func (s *Store) readRecord(path string, record any) error {
	doc, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(doc, record)
}

func (s *Store) listDir(dir string) ([]string, error) {
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("dir", dir))
	}

	names := make([]string, 0, len(infos))

	for _, info := range infos {
		if info.IsDir() {
			continue
		}

		names = append(names, info.Name())
	}

	slices.Sort(names)

	return names, nil
}

func (s *Store) notFound(name string) error {
	return &NotFoundError{Name: name, Suggestions: s.suggest(name)}
}
