// Package retry repeats a push until it succeeds or a fixed number of
// attempts is used up. Attempts follow each other without delay.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
	"github.com/tildaslashalef/zanata-sync/internal/loggy"
	"github.com/tildaslashalef/zanata-sync/internal/transfer"
)

// DefaultMaxAttempts is the number of push attempts when none is configured
const DefaultMaxAttempts = 4

// Phase of a retry sequence
type Phase string

const (
	Attempting Phase = "attempting"
	Succeeded  Phase = "succeeded"
	Exhausted  Phase = "exhausted"
)

// State tracks one push invocation. It is owned by the caller and never shared.
type State struct {
	Attempts    int
	MaxAttempts int
	Phase       Phase
	LastErr     error
}

// NewState validates maxAttempts and returns a fresh state
func NewState(maxAttempts int) (*State, error) {
	if maxAttempts < 1 {
		return nil, zerrors.Configuration("retry", "max attempts must be at least 1, got %d", maxAttempts)
	}
	return &State{MaxAttempts: maxAttempts, Phase: Attempting}, nil
}

// Remaining returns the attempts left
func (s *State) Remaining() int {
	return s.MaxAttempts - s.Attempts
}

// Notifier is told about every failed attempt that will be retried
type Notifier func(attempt int, err error)

// Controller runs push attempts
type Controller struct {
	logger *loggy.Logger
	notify Notifier
}

// NewController creates a retry controller. notify may be nil.
func NewController(logger *loggy.Logger, notify Notifier) *Controller {
	return &Controller{
		logger: logger,
		notify: notify,
	}
}

// AttemptPush calls push until it succeeds or maxAttempts calls failed. The
// returned state is the caller's record of how the sequence ended.
func (c *Controller) AttemptPush(ctx context.Context, push func(context.Context) transfer.Result, maxAttempts int) (transfer.Result, *State) {
	state, err := NewState(maxAttempts)
	if err != nil {
		return transfer.Result{Err: err}, &State{MaxAttempts: maxAttempts, Phase: Exhausted, LastErr: err}
	}

	var last transfer.Result
	operation := func() error {
		state.Attempts++
		last = push(ctx)
		if !last.OK() {
			state.LastErr = last.Err
			return last.Err
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(maxAttempts-1)),
		ctx,
	)

	err = backoff.RetryNotify(operation, policy, func(err error, _ time.Duration) {
		c.logger.Warn("Version update failed, trying again", "attempt", state.Attempts, "remaining", state.Remaining(), "error", err)
		if c.notify != nil {
			c.notify(state.Attempts, err)
		}
	})

	if err == nil {
		state.Phase = Succeeded
		return last, state
	}

	state.Phase = Exhausted
	c.logger.Error("Push attempts exhausted", "attempts", state.Attempts, "error", err)
	return transfer.Result{
		Err: zerrors.Wrap(zerrors.KindRetriesExhausted, fmt.Sprintf("push failed after %d attempts", state.Attempts), err),
	}, state
}
