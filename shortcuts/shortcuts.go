// Package shortcuts manages PATH wrapper scripts: one tiny shell script per
// stored command and sequence, so a shortcut name typed at the prompt runs
// it through chaintool.
package shortcuts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"
	"github.com/spf13/afero"

	"github.com/ardnew/chaintool/lang"
	"github.com/ardnew/chaintool/log"
	"github.com/ardnew/chaintool/pkg"
	"github.com/ardnew/chaintool/store"
)

// Manager writes and removes wrapper scripts for a store's items.
type Manager struct {
	Store *store.Store

	log log.Logger
}

// New creates a Manager over the given store.
func New(st *store.Store) *Manager {
	return &Manager{
		Store: st,
		log:   log.With(slog.String("component", "shortcuts")),
	}
}

// Dir returns the directory the wrapper scripts live in. Enable prints it so
// the user can add it to PATH.
func (m *Manager) Dir() string { return m.Store.ShortcutsDir() }

// Enable writes one wrapper script for every stored command and sequence,
// replacing any stale scripts from earlier enables.
func (m *Manager) Enable() error {
	if err := m.Disable(); err != nil {
		return err
	}

	commands, err := m.Store.Commands()
	if err != nil {
		return err
	}

	sequences, err := m.Store.Sequences()
	if err != nil {
		return err
	}

	for _, name := range commands {
		if err := m.write(name, "cmd"); err != nil {
			return err
		}
	}

	for _, name := range sequences {
		if err := m.write(name, "seq"); err != nil {
			return err
		}
	}

	m.log.Info("shortcuts enabled",
		slog.Int("commands", len(commands)), slog.Int("sequences", len(sequences)))

	return nil
}

// Disable removes every wrapper script.
func (m *Manager) Disable() error {
	names, err := afero.ReadDir(m.Store.Fs(), m.Dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return lang.WrapError(err).With(slog.String("dir", m.Dir()))
	}

	for _, info := range names {
		if info.IsDir() {
			continue
		}

		path := filepath.Join(m.Dir(), info.Name())
		if err := m.Store.Fs().Remove(path); err != nil {
			return lang.WrapError(err).With(slog.String("path", path))
		}
	}

	return nil
}

// Sync updates the wrapper script for one item after it is set or deleted.
// Scripts are only touched when the shortcuts dir already holds any, so Sync
// is a no-op until the user has enabled shortcuts.
func (m *Manager) Sync(name, kind string, exists bool) error {
	enabled, err := m.anyScripts()
	if err != nil || !enabled {
		return err
	}

	if !exists {
		err := m.Store.Fs().Remove(filepath.Join(m.Dir(), name))
		if err != nil && !os.IsNotExist(err) {
			return lang.WrapError(err).With(slog.String("shortcut", name))
		}

		return nil
	}

	return m.write(name, kind)
}

// write emits one wrapper script. The script defers entirely to chaintool so
// it never goes stale when the item's cmdline changes.
func (m *Manager) write(name, kind string) error {
	script := fmt.Sprintf(
		"#!/bin/sh\nexec %s %s run %q \"$@\"\n",
		pkg.Name, kind, name,
	)

	path := filepath.Join(m.Dir(), name)

	err := afero.WriteFile(m.Store.Fs(), path, []byte(script), 0o755)
	if err != nil {
		return lang.WrapError(err).With(slog.String("shortcut", name))
	}

	return nil
}

func (m *Manager) anyScripts() (bool, error) {
	infos, err := afero.ReadDir(m.Store.Fs(), m.Dir())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	for _, info := range infos {
		if !info.IsDir() {
			return true, nil
		}
	}

	return false, nil
}

// PathWith composes a PATH value that lists the shortcuts directory exactly
// once, ahead of every existing entry. Any existing occurrences of the
// directory are dropped before prefixing.
func (m *Manager) PathWith(current string) string {
	sep := string(os.PathListSeparator)

	var kept []string

	for _, item := range strings.Split(current, sep) {
		if item != "" && item != m.Dir() {
			kept = append(kept, item)
		}
	}

	return mung.Make(
		mung.WithSubjectItems(kept...),
		mung.WithDelim(sep),
		mung.WithPrefixItems(m.Dir()),
	).String()
}
