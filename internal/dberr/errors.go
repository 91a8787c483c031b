// Package dberr provides the error taxonomy shared by builders, clients and
// streaming jobs. Every error carries a stable code so callers can branch with
// errors.Is instead of matching message text.
package dberr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code is a stable, machine-readable error code.
type Code string

const (
	CodeNotSupported Code = "E1001" // dialect lacks the requested capability
	CodeValidation   Code = "E2001" // malformed spec or arguments
	CodeExecution    Code = "E3001" // backend rejected generated SQL
	CodeExport       Code = "E4001" // export job failed mid-stream
	CodeImport       Code = "E4002" // import job failed mid-stream
	CodeInProgress   Code = "E5001" // a mutating operation for the key is already running
	CodeNotFound     Code = "E5002" // unknown job or object
	CodeCursor       Code = "E6001" // cursor used outside its lifecycle
)

// Sentinels usable as errors.Is targets.
var (
	ErrNotSupported = &Error{code: CodeNotSupported, message: "not supported"}
	ErrValidation   = &Error{code: CodeValidation, message: "validation failed"}
	ErrExecution    = &Error{code: CodeExecution, message: "execution failed"}
	ErrExport       = &Error{code: CodeExport, message: "export failed"}
	ErrImport       = &Error{code: CodeImport, message: "import failed"}
	ErrInProgress   = &Error{code: CodeInProgress, message: "already in progress"}
	ErrNotFound     = &Error{code: CodeNotFound, message: "not found"}
	ErrCursor       = &Error{code: CodeCursor, message: "invalid cursor state"}
)

// Error is a coded error with optional structured context and cause.
type Error struct {
	code    Code
	message string
	context map[string]any
	cause   error
}

// Error formats as:
//
//	[E1001] rename column is not supported
//	  dialect: surrealdb
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.code, e.message)

	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %v", k, e.context[k])
		}
	}
	if e.cause != nil {
		fmt.Fprintf(&b, "\n  cause: %v", e.cause)
	}
	return b.String()
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same code, so the package sentinels work as
// errors.Is targets for every error built by this package.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.code == e.code
}

// Code returns the error code.
func (e *Error) Code() Code { return e.code }

// With adds a context key. It mutates and returns e for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.context == nil {
		e.context = make(map[string]any)
	}
	e.context[key] = value
	return e
}

// Context returns a copy of the structured context.
func (e *Error) Context() map[string]any {
	out := make(map[string]any, len(e.context))
	for k, v := range e.context {
		out[k] = v
	}
	return out
}

func newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// NotSupported reports a capability the dialect cannot express.
func NotSupported(dialect, operation string) *Error {
	return newf(CodeNotSupported, "%s is not supported", operation).With("dialect", dialect)
}

// Validation reports a malformed spec; it is raised before any SQL is built.
func Validation(format string, args ...any) *Error {
	return newf(CodeValidation, format, args...)
}

// Execution wraps a backend failure for the given statement.
func Execution(sql string, cause error) *Error {
	e := newf(CodeExecution, "statement failed")
	e.cause = cause
	return e.With("sql", sql)
}

// Export wraps a failure of a running export job.
func Export(id string, cause error) *Error {
	e := newf(CodeExport, "export %s failed", id)
	e.cause = cause
	return e
}

// Import wraps a failure of a running import job.
func Import(id string, cause error) *Error {
	e := newf(CodeImport, "import %s failed", id)
	e.cause = cause
	return e
}

// InProgress reports a second concurrent mutation for the same key.
func InProgress(key string) *Error {
	return newf(CodeInProgress, "operation for %q is already in progress", key)
}

// NotFound reports an unknown id or object name.
func NotFound(kind, name string) *Error {
	return newf(CodeNotFound, "%s %q not found", kind, name)
}

// Cursor reports a cursor used outside its lifecycle.
func Cursor(format string, args ...any) *Error {
	return newf(CodeCursor, format, args...)
}

// IsNotSupported reports whether err carries CodeNotSupported.
func IsNotSupported(err error) bool { return errors.Is(err, ErrNotSupported) }
