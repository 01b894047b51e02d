// Package errors provides centralized error definitions and error handling
// utilities for srvman. It defines the failure taxonomy used across the
// lifecycle controller, the tmux client, and the backup store, plus
// classification helpers used by the CLI dispatch layer.
//
// # Error Types
//
// Four failure kinds cover everything the tool can report:
//
//   - ValidationError: malformed user input (instance name, port)
//   - NotFoundError / AlreadyExistsError: violated preconditions about
//     directories, sessions, and windows; both are precondition failures
//   - ExternalToolError: the external process manager exited unexpectedly
//   - IOError: a filesystem create/copy/move/remove/read failure
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewNotFoundError("tmux window", name).WithSession(session)
//	err := errors.NewExternalToolError(args, stderr, exitCode)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrPreconditionFailed) { ... }
//
//	var toolErr *errors.ExternalToolError
//	if errors.As(err, &toolErr) { ... }
//
// Only the top-level dispatch translates an error into a process exit code;
// every failure kind maps to the same exit status and is distinguished in
// diagnostic text alone.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Sentinel errors for the failure taxonomy. Typed errors below match these
// through errors.Is, so callers can classify without knowing concrete types.
var (
	// ErrInvalidInput indicates a malformed instance name or port.
	ErrInvalidInput = New("invalid input")
	// ErrPreconditionFailed indicates required state (directory, session,
	// window) did not hold before an operation proceeded.
	ErrPreconditionFailed = New("precondition failed")
	// ErrNotFound indicates a required resource is absent.
	// NotFound is a precondition failure subtype.
	ErrNotFound = New("not found")
	// ErrAlreadyExists indicates a resource that must be absent is present.
	ErrAlreadyExists = New("already exists")
	// ErrExternalTool indicates the process manager returned an unexpected status.
	ErrExternalTool = New("external tool failed")
	// ErrIO indicates a filesystem operation failed.
	ErrIO = New("i/o failure")
)

// baseError provides common functionality for all typed errors.
type baseError struct {
	message string
	cause   error
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// ValidationError represents malformed user input.
//
// Example:
//
//	err := errors.NewValidationError("must be 1..32 lowercase Latin letters").
//		WithField("name").WithValue("Web-1")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{baseError: baseError{message: message}}
}

// WithField adds the offending flag or field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the rejected value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is reports whether this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// NotFoundError represents a required resource that is absent.
//
// Example:
//
//	err := errors.NewNotFoundError("tmux window", "web").WithSession("srvman")
//	fmt.Println(err) // "tmux window 'web' not found in session 'srvman'"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
	Session      string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError:    baseError{message: fmt.Sprintf("%s '%s' not found", resourceType, resourceID)},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithSession adds the containing session name to the error context.
func (e *NotFoundError) WithSession(session string) *NotFoundError {
	e.Session = session
	return e
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
	if e.Session != "" {
		msg = fmt.Sprintf("%s in session '%s'", msg, e.Session)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Is reports whether this error matches the target. NotFoundError matches
// both ErrNotFound and ErrPreconditionFailed.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if target == ErrNotFound || target == ErrPreconditionFailed {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// AlreadyExistsError represents a resource that must be absent but is present.
//
// Example:
//
//	err := errors.NewAlreadyExistsError("directory", "/work/web")
//	fmt.Println(err) // "directory '/work/web' already exists"
type AlreadyExistsError struct {
	baseError
	ResourceType string
	ResourceID   string
	Session      string
}

// NewAlreadyExistsError creates a new AlreadyExistsError.
func NewAlreadyExistsError(resourceType, resourceID string) *AlreadyExistsError {
	return &AlreadyExistsError{
		baseError:    baseError{message: fmt.Sprintf("%s '%s' already exists", resourceType, resourceID)},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithSession adds the containing session name to the error context.
func (e *AlreadyExistsError) WithSession(session string) *AlreadyExistsError {
	e.Session = session
	return e
}

// WithCause adds a cause to the error.
func (e *AlreadyExistsError) WithCause(cause error) *AlreadyExistsError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *AlreadyExistsError) Error() string {
	msg := fmt.Sprintf("%s '%s' already exists", e.ResourceType, e.ResourceID)
	if e.Session != "" {
		msg = fmt.Sprintf("%s in session '%s'", msg, e.Session)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Is reports whether this error matches the target. AlreadyExistsError
// matches both ErrAlreadyExists and ErrPreconditionFailed.
func (e *AlreadyExistsError) Is(target error) bool {
	if _, ok := target.(*AlreadyExistsError); ok {
		return true
	}
	if target == ErrAlreadyExists || target == ErrPreconditionFailed {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// ExternalToolError represents an unexpected exit status from the external
// process manager. It carries the joined command text and the captured
// diagnostic output for operator visibility.
//
// Example:
//
//	err := errors.NewExternalToolError([]string{"tmux", "kill-window", "-t", "srvman:web"}, stderr, 127)
type ExternalToolError struct {
	baseError
	Command  string // joined command text
	Stderr   string // captured diagnostic output, trimmed
	ExitCode int
}

// NewExternalToolError creates a new ExternalToolError from the command
// argument vector, captured stderr, and the tool's exit code.
func NewExternalToolError(args []string, stderr string, exitCode int) *ExternalToolError {
	return &ExternalToolError{
		baseError: baseError{message: "command failed"},
		Command:   strings.Join(args, " "),
		Stderr:    strings.TrimSpace(stderr),
		ExitCode:  exitCode,
	}
}

// WithCause adds a cause to the error (e.g. the tool binary was not found).
func (e *ExternalToolError) WithCause(cause error) *ExternalToolError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ExternalToolError) Error() string {
	detail := e.Stderr
	if detail == "" {
		detail = fmt.Sprintf("exit code %d", e.ExitCode)
	}
	msg := fmt.Sprintf("tmux command failed (%s): %s", e.Command, detail)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Is reports whether this error matches the target.
func (e *ExternalToolError) Is(target error) bool {
	if _, ok := target.(*ExternalToolError); ok {
		return true
	}
	if target == ErrExternalTool {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// IOError represents a filesystem operation failure.
//
// Example:
//
//	err := errors.NewIOError("move", backupPath, cause)
type IOError struct {
	baseError
	Op   string // "create", "copy", "move", "remove", "read"
	Path string
}

// NewIOError creates a new IOError for the given operation and path.
func NewIOError(op, path string, cause error) *IOError {
	return &IOError{
		baseError: baseError{message: fmt.Sprintf("failed to %s %s", op, path), cause: cause},
		Op:        op,
		Path:      path,
	}
}

// Is reports whether this error matches the target.
func (e *IOError) Is(target error) bool {
	if _, ok := target.(*IOError); ok {
		return true
	}
	if target == ErrIO {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// IsPreconditionFailure returns true if the error is a violated precondition
// (a NotFoundError or AlreadyExistsError, or anything wrapping one).
func IsPreconditionFailure(err error) bool {
	return err != nil && Is(err, ErrPreconditionFailed)
}

// IsExternalToolFailure returns true if the error originated from an
// unexpected process-manager exit status.
func IsExternalToolFailure(err error) bool {
	return err != nil && Is(err, ErrExternalTool)
}

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to stage artifact")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to stop instance %s", name)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
