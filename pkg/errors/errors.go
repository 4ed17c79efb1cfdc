// Package errors provides structured error types for modlaunch.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP API can map
// failures consistently (exit messages, status codes) while still wrapping
// the underlying cause.
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND: unknown modules, files or roots
//   - ACTIVATION_FAILED: the module framework rejected an install or start
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeModuleNotFound, "no known module matching %s", id)
//	if errors.Is(err, errors.ErrCodeModuleNotFound) {
//	    // report and continue
//	}
//
//	err := errors.Wrap(errors.ErrCodeActivation, cause, "start %s", path)
//
// A hint tells the user what to do next; the CLI prints it below the error:
//
//	errors.New(errors.ErrCodeCommandNotFound, "no command named %q", name).
//		WithHint("configured commands: %s", strings.Join(names, ", "))
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Rejected input: bad manifests, versions, paths, config or output formats.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidVersion  Code = "INVALID_VERSION"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Lookups that matched nothing.
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeModuleNotFound  Code = "MODULE_NOT_FOUND"
	ErrCodeCommandNotFound Code = "COMMAND_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// The module framework refused an install or start.
	ErrCodeActivation Code = "ACTIVATION_FAILED"

	// Cache backends.
	ErrCodeCache   Code = "CACHE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Cause and Hint are optional.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Hint    string // next step for the user, printed by the CLI
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithHint sets a suggestion shown to the user below the error and returns e.
func (e *Error) WithHint(format string, args ...any) *Error {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// Hint returns the first non-empty hint in err's chain.
func Hint(err error) string {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Hint != "" {
			return e.Hint
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// outermost returns the first *Error in err's chain.
func outermost(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e := outermost(err)
	return e != nil && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e := outermost(err); e != nil {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code
// or cause, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e := outermost(err); e != nil {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status the API answers with.
// Uncoded errors are internal server errors.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidVersion, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeModuleNotFound, ErrCodeCommandNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
