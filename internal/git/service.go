// Package git locates the project a command runs in and inspects the
// working tree state of its translation folder.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/tildaslashalef/zanata-sync/internal/loggy"
)

// Service provides Git lookups
type Service struct {
	logger *loggy.Logger
}

// NewService creates a new Git service
func NewService(logger *loggy.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// ProjectRoot returns the top of the worktree enclosing dir. Outside a
// repository dir itself is the project root.
func (s *Service) ProjectRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		s.logger.Debug("No git repository found, using working directory", "path", abs)
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// bare repositories have no worktree
		return abs, nil
	}
	return wt.Filesystem.Root(), nil
}

// ModifiedFiles lists files under relDir (relative to the worktree root)
// that differ from HEAD. It returns nil outside a repository.
func (s *Service) ModifiedFiles(root, relDir string) ([]string, error) {
	repo, err := git.PlainOpen(root)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, nil
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading worktree status: %w", err)
	}

	prefix := filepath.ToSlash(filepath.Clean(relDir))
	if prefix == "." {
		prefix = ""
	} else {
		prefix += "/"
	}

	var changed []string
	for path, st := range status {
		if st.Worktree == git.Unmodified && st.Staging == git.Unmodified {
			continue
		}
		if st.Worktree == git.Untracked {
			continue
		}
		if strings.HasPrefix(path, prefix) {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed, nil
}
