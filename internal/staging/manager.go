// Package staging manages the transient directory that mirrors the local
// translation folder under remote-convention file names during a sync.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
	"github.com/tildaslashalef/zanata-sync/internal/locale"
	"github.com/tildaslashalef/zanata-sync/internal/loggy"
)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// Manager owns the staging directory for the duration of a sync
type Manager struct {
	fs     billy.Filesystem
	logger *loggy.Logger
}

// NewManager creates a manager on the given filesystem
func NewManager(fs billy.Filesystem, logger *loggy.Logger) *Manager {
	return &Manager{
		fs:     fs,
		logger: logger,
	}
}

// NewOSManager creates a manager on the host filesystem. Paths handed to it
// must be absolute.
func NewOSManager(logger *loggy.Logger) *Manager {
	return NewManager(osfs.New("/", osfs.WithBoundOS()), logger)
}

// Filesystem returns the filesystem the manager operates on
func (m *Manager) Filesystem() billy.Filesystem {
	return m.fs
}

// Prepare creates the temp root and staging directory if absent. Leftover
// files from an interrupted run are removed so the area starts empty. A
// leftover subdirectory is an error and nothing is removed.
func (m *Manager) Prepare(stagingPath string) error {
	root := filepath.Dir(filepath.Clean(stagingPath))
	if err := m.fs.MkdirAll(root, dirPerm); err != nil {
		return zerrors.Filesystem("create temp root", err)
	}
	if err := m.fs.MkdirAll(stagingPath, dirPerm); err != nil {
		return zerrors.Filesystem("create staging directory", err)
	}

	entries, err := m.fs.ReadDir(stagingPath)
	if err != nil {
		return zerrors.Filesystem("read staging directory", err)
	}
	if len(entries) > 0 {
		m.logger.Warn("Staging directory not empty, clearing leftovers", "path", stagingPath, "entries", len(entries))
		if err := m.removeFiles(stagingPath, entries); err != nil {
			return zerrors.Filesystem("clear staging directory", err)
		}
	}

	m.logger.Debug("Staging directory prepared", "path", stagingPath)
	return nil
}

// CollectForPush copies translation files from sourceDir into the staging
// area. Templates keep their name, translation stems go through encode.
// Names in exclude are skipped by exact match.
func (m *Manager) CollectForPush(sourceDir, stagingPath string, exclude []string, encode locale.Func) ([]File, error) {
	if encode == nil {
		encode = locale.HyphenToUnderscore
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	entries, err := m.readSorted(sourceDir)
	if err != nil {
		return nil, zerrors.Filesystem("read translation folder", err)
	}

	var staged []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, excluded := skip[e.Name()]; excluded {
			m.logger.Debug("Skipping excluded file", "file", e.Name())
			continue
		}

		kind, stem, ok := classify(e.Name())
		if !ok {
			continue
		}

		file := File{Kind: kind, Name: e.Name()}
		if kind == KindLocaleTranslation {
			file.Locale = encode(stem)
			file.Name = file.Locale + TranslationExt
		}
		file.Path = m.fs.Join(stagingPath, file.Name)

		if err := m.copyFile(m.fs.Join(sourceDir, e.Name()), file.Path); err != nil {
			return staged, zerrors.Filesystem(fmt.Sprintf("stage %s", e.Name()), err)
		}
		staged = append(staged, file)
	}

	m.logger.Info("Collected files for push", "source", sourceDir, "staged", len(staged))
	return staged, nil
}

// PlaceFromPull copies pulled files from the staging area into outputDir,
// decoding translation stems back to the local convention.
func (m *Manager) PlaceFromPull(stagingPath, outputDir string, decode locale.Func) ([]File, error) {
	if decode == nil {
		decode = locale.UnderscoreToHyphen
	}

	if err := m.fs.MkdirAll(outputDir, dirPerm); err != nil {
		return nil, zerrors.Filesystem("create translation folder", err)
	}

	entries, err := m.readSorted(stagingPath)
	if err != nil {
		return nil, zerrors.Filesystem("read staging directory", err)
	}

	var placed []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		kind, stem, ok := classify(e.Name())
		if !ok {
			continue
		}

		file := File{Kind: kind, Name: e.Name()}
		if kind == KindLocaleTranslation {
			file.Locale = decode(stem)
			file.Name = file.Locale + TranslationExt
		}
		file.Path = m.fs.Join(outputDir, file.Name)

		if err := m.copyFile(m.fs.Join(stagingPath, e.Name()), file.Path); err != nil {
			return placed, zerrors.Filesystem(fmt.Sprintf("place %s", e.Name()), err)
		}
		placed = append(placed, file)
	}

	m.logger.Info("Placed pulled files", "destination", outputDir, "placed", len(placed))
	return placed, nil
}

// WriteItem writes a single received file into the staging area
func (m *Manager) WriteItem(stagingPath, name string, data []byte) error {
	if err := util.WriteFile(m.fs, m.fs.Join(stagingPath, name), data, filePerm); err != nil {
		return zerrors.Filesystem(fmt.Sprintf("write %s", name), err)
	}
	return nil
}

// Cleanup removes every file in the staging directory and then the
// directory itself. A missing directory is not an error. Subdirectories are
// never descended into; finding one is an error.
func (m *Manager) Cleanup(stagingPath string) error {
	entries, err := m.fs.ReadDir(stagingPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return zerrors.Filesystem("read staging directory", err)
	}

	if err := m.removeFiles(stagingPath, entries); err != nil {
		return zerrors.Filesystem("clear staging directory", err)
	}

	if err := m.fs.Remove(stagingPath); err != nil && !os.IsNotExist(err) {
		return zerrors.Filesystem("remove staging directory", err)
	}

	m.logger.Debug("Staging directory removed", "path", stagingPath, "files", len(entries))
	return nil
}

// List returns the files currently in a directory, sorted by name
func (m *Manager) List(dir string) ([]File, error) {
	entries, err := m.readSorted(dir)
	if err != nil {
		return nil, zerrors.Filesystem("list directory", err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		kind, stem, ok := classify(e.Name())
		if !ok {
			continue
		}
		f := File{Path: m.fs.Join(dir, e.Name()), Name: e.Name(), Kind: kind}
		if kind == KindLocaleTranslation {
			f.Locale = stem
		}
		files = append(files, f)
	}
	return files, nil
}

// removeFiles unlinks the plain files among entries. Nothing is removed
// when a subdirectory is present.
func (m *Manager) removeFiles(dir string, entries []os.FileInfo) error {
	for _, e := range entries {
		if e.IsDir() {
			return fmt.Errorf("unexpected subdirectory %s in %s", e.Name(), dir)
		}
	}
	for _, e := range entries {
		if err := m.fs.Remove(m.fs.Join(dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", e.Name(), err)
		}
	}
	return nil
}

func (m *Manager) readSorted(dir string) ([]os.FileInfo, error) {
	entries, err := m.fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *Manager) copyFile(src, dst string) error {
	in, err := m.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := m.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
