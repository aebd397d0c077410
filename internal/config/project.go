package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
)

// ProjectFile is the per-project option file, relative to the project root
const ProjectFile = "config/zanata.yml"

// CurrentVersion is replaced by the version found in package.json
const CurrentVersion = "current"

// ProjectOptions are the command options a project can preset
type ProjectOptions struct {
	URL               string   `yaml:"url,omitempty"`
	Username          string   `yaml:"username,omitempty"`
	ProjectID         string   `yaml:"projectId,omitempty"`
	Version           string   `yaml:"version,omitempty"`
	Locales           []string `yaml:"locales,omitempty"`
	ExcludeFiles      []string `yaml:"excludeFiles,omitempty"`
	UpdateType        string   `yaml:"updateType,omitempty"`
	TranslationFolder string   `yaml:"translationFolder,omitempty"`
	TmpDir            string   `yaml:"tmpDir,omitempty"`
	TryCount          int      `yaml:"tryCount,omitempty"`
	ZanataLocaleRule  string   `yaml:"zanataLocaleRule,omitempty"`
	LocalLocaleRule   string   `yaml:"localLocaleRule,omitempty"`
	ResolveIfExists   *bool    `yaml:"resolveIfExists,omitempty"`
	UpdateIfNew       *bool    `yaml:"updateIfNew,omitempty"`
}

// Bool dereferences an optional switch, nil meaning false
func Bool(b *bool) bool {
	return b != nil && *b
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// DefaultProjectOptions returns the built-in option values, taking the
// server and folder settings from cfg
func DefaultProjectOptions(cfg *Config) ProjectOptions {
	opts := ProjectOptions{
		Locales:          []string{"en"},
		ExcludeFiles:     []string{"excluded.pot"},
		ZanataLocaleRule: "default",
		LocalLocaleRule:  "default",
		ResolveIfExists:  BoolPtr(false),
		UpdateIfNew:      BoolPtr(true),
	}
	if cfg != nil {
		opts.URL = cfg.Server.URL
		opts.Username = cfg.Server.Username
		opts.TranslationFolder = cfg.Sync.TranslationFolder
		opts.TmpDir = cfg.Sync.StagingDir
		opts.TryCount = cfg.Sync.TryCount
	}
	return opts
}

// LoadProjectOptions reads config/zanata.yml below root. A missing file
// yields empty options.
func LoadProjectOptions(root string) (ProjectOptions, error) {
	var opts ProjectOptions

	path := filepath.Join(root, ProjectFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return opts, nil
	}
	if err != nil {
		return opts, zerrors.Filesystem("read project options", err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, zerrors.Configuration("read project options", "invalid %s: %v", path, err)
	}
	return opts, nil
}

// ResolveOptions layers options: values set in flags win, then the project
// file, then defaults.
func ResolveOptions(flags, file, defaults ProjectOptions) (ProjectOptions, error) {
	resolved := flags
	if err := mergo.Merge(&resolved, file, mergo.WithoutDereference); err != nil {
		return ProjectOptions{}, fmt.Errorf("error merging project options: %w", err)
	}
	if err := mergo.Merge(&resolved, defaults, mergo.WithoutDereference); err != nil {
		return ProjectOptions{}, fmt.Errorf("error merging default options: %w", err)
	}
	return resolved, nil
}

// ResolveVersion replaces "current" with the version in root/package.json
func ResolveVersion(root, version string) (string, error) {
	const op = "resolve version"

	if version != CurrentVersion {
		return version, nil
	}

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return "", zerrors.Configuration(op, "version %q needs a package.json: %v", CurrentVersion, err)
	}

	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", zerrors.Configuration(op, "invalid package.json: %v", err)
	}
	if strings.TrimSpace(pkg.Version) == "" {
		return "", zerrors.Configuration(op, "package.json has no version")
	}
	return pkg.Version, nil
}
