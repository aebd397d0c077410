package staging

import (
	"path/filepath"
	"strings"
)

// FileKind classifies a staged file by extension
type FileKind string

const (
	KindSourceTemplate    FileKind = "source-template"
	KindLocaleTranslation FileKind = "locale-translation"
)

const (
	SourceExt      = ".pot"
	TranslationExt = ".po"
)

// File is a file present in the staging area or placed from it
type File struct {
	Path   string
	Name   string
	Kind   FileKind
	Locale string // empty for source templates
}

// classify returns the kind and stem of a file name, or false for files the
// sync ignores
func classify(name string) (FileKind, string, bool) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	switch ext {
	case SourceExt:
		return KindSourceTemplate, stem, true
	case TranslationExt:
		return KindLocaleTranslation, stem, true
	default:
		return "", "", false
	}
}
