// Package thurerr implements Thurbox's error taxonomy: a small set of typed
// errors that every boundary (backend, store, worktree) returns instead of
// opaque fmt.Errorf strings, so internal/app can route failures to the
// right status badge or modal without string-matching.
package thurerr

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Kind discriminates the taxonomy's error classes.
type Kind string

const (
	KindBackendUnavailable Kind = "backend_unavailable"
	KindBackendTimeout     Kind = "backend_timeout"
	KindBackendProtocol    Kind = "backend_protocol"
	KindSpawnFailed        Kind = "spawn_failed"
	KindChildExitedNonZero Kind = "child_exited_nonzero"
	KindStoreConflict      Kind = "store_conflict"
	KindStoreUnavailable   Kind = "store_unavailable"
	KindValidationFailed   Kind = "validation_failed"
	KindWorktreeConflict   Kind = "worktree_conflict"
	KindRebaseConflict     Kind = "rebase_conflict"
	KindNotFound           Kind = "not_found"
	KindForbidden          Kind = "forbidden"
)

// Error is Thurbox's one error type: a Kind, a human message, an optional
// wrapped cause, and a few well-known fields the taxonomy's kinds call for.
type Error struct {
	Kind    Kind
	Message string
	Cause   error

	// Field is set for KindValidationFailed: the name of the offending field.
	Field string
	// ExitCode is set for KindChildExitedNonZero.
	ExitCode int
	// Path is set for KindWorktreeConflict / KindRebaseConflict.
	Path string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is makes errors.Is(err, thurerr.NotFound("")) work by comparing Kind,
// so callers can match on kind without a type assertion.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func new_(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func BackendUnavailable(message string, cause error) *Error {
	return new_(KindBackendUnavailable, message, cause)
}

func BackendTimeout(message string, cause error) *Error {
	return new_(KindBackendTimeout, message, cause)
}

func BackendProtocol(message string, cause error) *Error {
	return new_(KindBackendProtocol, message, cause)
}

func SpawnFailed(message string, cause error) *Error {
	return new_(KindSpawnFailed, message, cause)
}

func ChildExitedNonZero(exitCode int) *Error {
	return &Error{Kind: KindChildExitedNonZero, Message: "child exited non-zero", ExitCode: exitCode}
}

func StoreConflict(message string, cause error) *Error {
	return new_(KindStoreConflict, message, cause)
}

func StoreUnavailable(message string, cause error) *Error {
	return new_(KindStoreUnavailable, message, cause)
}

func ValidationFailed(field, message string) *Error {
	return &Error{Kind: KindValidationFailed, Message: message, Field: field}
}

func WorktreeConflict(path, message string, cause error) *Error {
	return &Error{Kind: KindWorktreeConflict, Message: message, Cause: cause, Path: path}
}

func RebaseConflict(path, message string) *Error {
	return &Error{Kind: KindRebaseConflict, Message: message, Path: path}
}

func NotFound(message string) *Error {
	return new_(KindNotFound, message, nil)
}

func Forbidden(message string) *Error {
	return new_(KindForbidden, message, nil)
}

// Fatal wraps an init-time failure with a captured stack trace, for the one
// panic-recovery hook in cmd/thurbox/main.go to print on the way out.
func Fatal(message string, cause error) error {
	return goerrors.WrapPrefix(cause, message, 1)
}
