package commands

import (
	"context"
	"fmt"
	"time"

	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
)

// DefaultCommandTimeout bounds a whole command invocation
const DefaultCommandTimeout = 5 * time.Minute

// runWithTimeout waits for fn at most timeout. On expiry it stops waiting
// and returns a timeout error; fn is not interrupted and keeps running until
// the process exits.
func runWithTimeout(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return zerrors.New(zerrors.KindTimeout, "command", fmt.Sprintf("gave up after %s", timeout))
	}
}
