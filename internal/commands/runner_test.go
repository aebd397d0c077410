package commands

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
)

func TestRunWithTimeoutReturnsResult(t *testing.T) {
	err := runWithTimeout(context.Background(), time.Second, func(context.Context) error {
		return nil
	})
	assert.NoError(t, err)

	boom := errors.New("boom")
	err = runWithTimeout(context.Background(), time.Second, func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunWithTimeoutExpires(t *testing.T) {
	release := make(chan struct{})
	var finished atomic.Bool

	err := runWithTimeout(context.Background(), 20*time.Millisecond, func(ctx context.Context) error {
		<-release
		finished.Store(true)
		return nil
	})

	assert.ErrorIs(t, err, zerrors.ErrTimeout)
	assert.Equal(t, 6, zerrors.ExitCode(err))
	assert.False(t, finished.Load(), "the caller stops waiting without the work completing")
	close(release)
}

func TestRunWithTimeoutDoesNotCancelWork(t *testing.T) {
	ctxErr := make(chan error, 1)
	release := make(chan struct{})

	err := runWithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) error {
		<-release
		ctxErr <- ctx.Err()
		return nil
	})
	assert.ErrorIs(t, err, zerrors.ErrTimeout)

	close(release)
	assert.NoError(t, <-ctxErr)
}
