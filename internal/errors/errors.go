// Package errors defines the error kinds surfaced by zanata-sync commands
// and maps each kind to a process exit code.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure
type Kind int

const (
	KindGeneric Kind = iota
	KindConfiguration
	KindRemote
	KindFilesystem
	KindRetriesExhausted
	KindTimeout
)

// String returns the kind name used in logs
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindRemote:
		return "RemoteFailure"
	case KindFilesystem:
		return "FilesystemFailure"
	case KindRetriesExhausted:
		return "RetriesExhausted"
	case KindTimeout:
		return "Timeout"
	default:
		return "Error"
	}
}

// ExitCode returns the process exit code for the kind
func (k Kind) ExitCode() int {
	switch k {
	case KindConfiguration:
		return 2
	case KindRemote:
		return 3
	case KindFilesystem:
		return 4
	case KindRetriesExhausted:
		return 5
	case KindTimeout:
		return 6
	default:
		return 1
	}
}

// Sentinels usable with errors.Is. Any *Error of the same kind matches.
var (
	ErrConfiguration    = &Error{Kind: KindConfiguration, Message: "invalid configuration"}
	ErrRemote           = &Error{Kind: KindRemote, Message: "remote service failure"}
	ErrFilesystem       = &Error{Kind: KindFilesystem, Message: "filesystem failure"}
	ErrRetriesExhausted = &Error{Kind: KindRetriesExhausted, Message: "retries exhausted"}
	ErrTimeout          = &Error{Kind: KindTimeout, Message: "command timed out"}
)

// Error is a classified failure with an optional operation name and cause
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on kind so wrapped errors compare equal to the package sentinels
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an error of the given kind
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap classifies cause under kind. A nil cause yields nil.
func Wrap(kind Kind, op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Cause: cause}
}

// Configuration builds a ConfigurationError
func Configuration(op, format string, args ...any) *Error {
	return New(KindConfiguration, op, fmt.Sprintf(format, args...))
}

// Filesystem wraps a filesystem failure
func Filesystem(op string, cause error) error {
	return Wrap(KindFilesystem, op, cause)
}

// Remote wraps a remote service failure
func Remote(op string, cause error) error {
	return Wrap(KindRemote, op, cause)
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindGeneric
}

// ExitCode returns the exit code for err, 0 for nil
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}

// Is is a passthrough to the standard library
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a passthrough to the standard library
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
