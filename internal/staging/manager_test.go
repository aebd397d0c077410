package staging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
	"github.com/tildaslashalef/zanata-sync/internal/locale"
	"github.com/tildaslashalef/zanata-sync/internal/loggy"
)

const (
	translations = "/project/translations"
	stagingDir   = "/project/tmp/.zanata"
)

func setupManager(t *testing.T, files map[string]string) (*Manager, billy.Filesystem) {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0644))
	}
	return NewManager(fs, loggy.NewNoopLogger()), fs
}

func names(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func dirNames(t *testing.T, fs billy.Filesystem, dir string) []string {
	t.Helper()
	entries, err := fs.ReadDir(dir)
	require.NoError(t, err)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

func TestPrepareIsIdempotent(t *testing.T) {
	m, fs := setupManager(t, nil)

	require.NoError(t, m.Prepare(stagingDir))
	require.NoError(t, m.Prepare(stagingDir))

	info, err := fs.Stat(stagingDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	root, err := fs.Stat("/project/tmp")
	require.NoError(t, err)
	assert.True(t, root.IsDir())
}

func TestPrepareClearsLeftovers(t *testing.T) {
	m, fs := setupManager(t, map[string]string{
		stagingDir + "/stale.po": "old",
	})

	require.NoError(t, m.Prepare(stagingDir))
	assert.Empty(t, dirNames(t, fs, stagingDir))
}

func TestCollectForPush(t *testing.T) {
	m, fs := setupManager(t, map[string]string{
		translations + "/source.pot":   "msgid \"\"",
		translations + "/en.po":        "en",
		translations + "/zh-Hans.po":   "zh",
		translations + "/excluded.pot": "skip me",
		translations + "/README.md":    "ignored",
	})
	require.NoError(t, m.Prepare(stagingDir))

	staged, err := m.CollectForPush(translations, stagingDir, []string{"excluded.pot"}, locale.HyphenToUnderscore)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"source.pot", "en.po", "zh_Hans.po"}, names(staged))
	assert.ElementsMatch(t, []string{"source.pot", "en.po", "zh_Hans.po"}, dirNames(t, fs, stagingDir))

	data, err := util.ReadFile(fs, stagingDir+"/zh_Hans.po")
	require.NoError(t, err)
	assert.Equal(t, "zh", string(data))

	for _, f := range staged {
		switch f.Kind {
		case KindSourceTemplate:
			assert.Empty(t, f.Locale)
		case KindLocaleTranslation:
			assert.Equal(t, f.Locale+TranslationExt, f.Name)
		}
	}
}

func TestCollectForPushExcludeIsExactMatch(t *testing.T) {
	m, fs := setupManager(t, map[string]string{
		translations + "/excluded.pot":     "a",
		translations + "/excluded.pot.bak": "b",
		translations + "/my-excluded.pot":  "c",
	})
	require.NoError(t, m.Prepare(stagingDir))

	_, err := m.CollectForPush(translations, stagingDir, []string{"excluded.pot"}, nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"my-excluded.pot"}, dirNames(t, fs, stagingDir))
}

func TestCollectForPushMissingSource(t *testing.T) {
	m, _ := setupManager(t, nil)
	require.NoError(t, m.Prepare(stagingDir))

	_, err := m.CollectForPush("/nowhere", stagingDir, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, zerrors.ErrFilesystem)
}

func TestPlaceFromPull(t *testing.T) {
	m, fs := setupManager(t, map[string]string{
		stagingDir + "/source.pot": "pot",
		stagingDir + "/en.po":      "en",
		stagingDir + "/zh_Hans.po": "zh",
	})

	placed, err := m.PlaceFromPull(stagingDir, translations, locale.UnderscoreToHyphen)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"source.pot", "en.po", "zh-Hans.po"}, names(placed))
	assert.ElementsMatch(t, []string{"source.pot", "en.po", "zh-Hans.po"}, dirNames(t, fs, translations))
}

func TestWriteItem(t *testing.T) {
	m, fs := setupManager(t, nil)
	require.NoError(t, m.Prepare(stagingDir))

	require.NoError(t, m.WriteItem(stagingDir, "de.po", []byte("de")))

	data, err := util.ReadFile(fs, stagingDir+"/de.po")
	require.NoError(t, err)
	assert.Equal(t, "de", string(data))
}

func TestPrepareRefusesSubdirectories(t *testing.T) {
	m, fs := setupManager(t, map[string]string{
		stagingDir + "/stale.po":           "old",
		stagingDir + "/translations/en.po": "keep",
	})

	err := m.Prepare(stagingDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, zerrors.ErrFilesystem)

	data, readErr := util.ReadFile(fs, stagingDir+"/translations/en.po")
	require.NoError(t, readErr)
	assert.Equal(t, "keep", string(data))
	assert.ElementsMatch(t, []string{"stale.po", "translations"}, dirNames(t, fs, stagingDir))
}

func TestCleanupRefusesSubdirectories(t *testing.T) {
	m, fs := setupManager(t, map[string]string{
		stagingDir + "/en.po":        "en",
		stagingDir + "/nested/x.txt": "x",
	})

	err := m.Cleanup(stagingDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, zerrors.ErrFilesystem)

	_, statErr := fs.Stat(stagingDir + "/nested/x.txt")
	assert.NoError(t, statErr)
}

func TestOSManager(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "translations")
	stage := filepath.Join(root, "tmp", ".zanata")
	require.NoError(t, os.MkdirAll(source, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "zh-Hans.po"), []byte("zh"), 0644))

	m := NewOSManager(loggy.NewNoopLogger())
	require.NoError(t, m.Prepare(stage))

	staged, err := m.CollectForPush(source, stage, nil, locale.HyphenToUnderscore)
	require.NoError(t, err)
	assert.Equal(t, []string{"zh_Hans.po"}, names(staged))

	data, err := os.ReadFile(filepath.Join(stage, "zh_Hans.po"))
	require.NoError(t, err)
	assert.Equal(t, "zh", string(data))

	require.NoError(t, m.Cleanup(stage))
	_, err = os.Stat(stage)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanup(t *testing.T) {
	m, fs := setupManager(t, map[string]string{
		stagingDir + "/source.pot": "pot",
		stagingDir + "/en.po":      "en",
	})

	require.NoError(t, m.Cleanup(stagingDir))

	_, err := fs.Stat(stagingDir)
	assert.True(t, os.IsNotExist(err))

	// second cleanup on an absent directory is a no-op
	require.NoError(t, m.Cleanup(stagingDir))
}

func TestList(t *testing.T) {
	m, _ := setupManager(t, map[string]string{
		translations + "/b.po":     "b",
		translations + "/a.pot":    "a",
		translations + "/notes.md": "n",
	})

	files, err := m.List(translations)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.pot", files[0].Name)
	assert.Equal(t, "b", files[1].Locale)
}
