package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/zanata-sync/internal/loggy"
	"github.com/tildaslashalef/zanata-sync/internal/staging"
	"github.com/tildaslashalef/zanata-sync/internal/zanata"
)

type mockRemote struct {
	mock.Mock
	items []zanata.PullItem
}

func (m *mockRemote) Pull(ctx context.Context, p zanata.PullParams, onItem zanata.PullHandler) (*zanata.PullSummary, error) {
	args := m.Called(ctx, p)
	for _, item := range m.items {
		if err := onItem(item); err != nil {
			return nil, err
		}
	}
	summary, _ := args.Get(0).(*zanata.PullSummary)
	return summary, args.Error(1)
}

func (m *mockRemote) Push(ctx context.Context, p zanata.PushParams) (*zanata.PushSummary, error) {
	args := m.Called(ctx, p)
	summary, _ := args.Get(0).(*zanata.PushSummary)
	return summary, args.Error(1)
}

const stage = "/tmp/.zanata"

func setupAdapter(t *testing.T) (*Adapter, *mockRemote, *staging.Manager) {
	t.Helper()
	logger := loggy.NewNoopLogger()
	mgr := staging.NewManager(memfs.New(), logger)
	require.NoError(t, mgr.Prepare(stage))
	remote := &mockRemote{}
	return NewAdapter(remote, mgr, logger), remote, mgr
}

func request() Request {
	return Request{
		Project:    "demo",
		Version:    "1.0",
		Scope:      zanata.ScopeTrans,
		Locales:    []string{"en", "de"},
		StagingDir: stage,
	}
}

func TestPullWritesItems(t *testing.T) {
	adapter, remote, mgr := setupAdapter(t)
	remote.items = []zanata.PullItem{
		{Type: zanata.ItemTranslation, Document: "messages", Locale: "en", Data: []byte("en")},
		{Type: zanata.ItemTranslation, Document: "messages", Locale: "de", Data: []byte("de")},
		{Type: zanata.ItemSource, Document: "source", Data: []byte("pot")},
	}
	summary := &zanata.PullSummary{Documents: 1, Translations: 2, Sources: 1}
	remote.On("Pull", mock.Anything, zanata.PullParams{
		Project: "demo", Version: "1.0", Scope: zanata.ScopeTrans,
		Locales: []string{"en", "de"}, SrcDir: stage, DstDir: stage, Force: true,
	}).Return(summary, nil)

	result := adapter.Pull(context.Background(), request())
	require.True(t, result.OK())
	assert.Same(t, summary, result.Summary)

	files, err := mgr.List(stage)
	require.NoError(t, err)
	var got []string
	for _, f := range files {
		got = append(got, f.Name)
	}
	assert.Equal(t, []string{"de.po", "en.po", "source.pot"}, got)
	remote.AssertExpectations(t)
}

func TestPullTerminalFailureWinsOverItems(t *testing.T) {
	adapter, remote, mgr := setupAdapter(t)
	remote.items = []zanata.PullItem{
		{Type: zanata.ItemTranslation, Document: "messages", Locale: "en", Data: []byte("en")},
	}
	remote.On("Pull", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	result := adapter.Pull(context.Background(), request())
	assert.False(t, result.OK())
	assert.Nil(t, result.Summary)
	assert.EqualError(t, result.Err, "connection reset")

	data, err := util.ReadFile(mgr.Filesystem(), stage+"/en.po")
	require.NoError(t, err, "items received before the failure stay written")
	assert.Equal(t, "en", string(data))
}

func TestPushParameters(t *testing.T) {
	adapter, remote, _ := setupAdapter(t)
	summary := &zanata.PushSummary{Sources: 1}
	remote.On("Push", mock.Anything, zanata.PushParams{
		Project: "demo", Version: "1.0", Scope: zanata.ScopeTrans,
		Locales: []string{"en", "de"}, SrcDir: stage, DstDir: stage,
		CopyTrans: true, ProjectType: "gettext",
	}).Return(summary, nil)

	result := adapter.Push(context.Background(), request())
	require.True(t, result.OK())
	assert.Same(t, summary, result.Summary)
	remote.AssertExpectations(t)
}

func TestPushFailure(t *testing.T) {
	adapter, remote, _ := setupAdapter(t)
	remote.On("Push", mock.Anything, mock.Anything).Return(nil, errors.New("503"))

	result := adapter.Push(context.Background(), request())
	assert.False(t, result.OK())
	assert.EqualError(t, result.Err, "503")
}

func TestPushWithoutStagingArea(t *testing.T) {
	adapter, remote, mgr := setupAdapter(t)
	require.NoError(t, mgr.Cleanup(stage))

	result := adapter.Push(context.Background(), request())
	assert.False(t, result.OK())
	assert.Nil(t, result.Summary)
	remote.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)
}
