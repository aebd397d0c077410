package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Kind: KindConfiguration, Message: "project id is required"},
			expected: "project id is required",
		},
		{
			name:     "op and message",
			err:      &Error{Kind: KindConfiguration, Op: "validate", Message: "project id is required"},
			expected: "validate: project id is required",
		},
		{
			name:     "op and cause",
			err:      &Error{Kind: KindFilesystem, Op: "stage", Cause: fmt.Errorf("disk full")},
			expected: "stage: FilesystemFailure: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(KindRemote, "push", nil))
	assert.Nil(t, Filesystem("copy", nil))
}

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("pull failed: %w", Remote("pull", fmt.Errorf("503")))

	assert.True(t, stderrors.Is(err, ErrRemote))
	assert.False(t, stderrors.Is(err, ErrFilesystem))
	assert.Equal(t, KindRemote, KindOf(err))
	assert.Equal(t, 3, ExitCode(err))
}

func TestOutermostKindWins(t *testing.T) {
	inner := Remote("push", fmt.Errorf("boom"))
	outer := Wrap(KindRetriesExhausted, "push", inner)

	assert.Equal(t, KindRetriesExhausted, KindOf(outer))
	assert.True(t, Is(outer, ErrRetriesExhausted))
	assert.True(t, Is(outer, ErrRemote))
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(fmt.Errorf("plain")))
	assert.Equal(t, 2, ExitCode(Configuration("validate", "missing %s", "version")))
	assert.Equal(t, 6, ExitCode(ErrTimeout))
}

func TestKindRoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("wrapped kinds survive fmt wrapping and keep distinct exit codes",
		prop.ForAll(
			func(k int, msg string) bool {
				kind := Kind(k)
				err := fmt.Errorf("context: %w", New(kind, "op", msg))
				if KindOf(err) != kind {
					return false
				}
				if kind == KindGeneric {
					return ExitCode(err) == 1
				}
				return ExitCode(err) == kind.ExitCode() && ExitCode(err) > 1
			},
			gen.IntRange(int(KindGeneric), int(KindTimeout)),
			gen.AlphaString(),
		))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
