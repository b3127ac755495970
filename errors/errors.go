package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in the shim lifecycle the error occurred
type Phase string

const (
	PhaseConfig  Phase = "config"  // shim construction
	PhaseBind    Phase = "bind"    // memory binding
	PhaseHost    Phase = "host"    // host import execution
	PhaseGuest   Phase = "guest"   // guest-signaled conditions
	PhaseEntropy Phase = "entropy" // random byte generation
	PhaseLoad    Phase = "load"    // module compilation
	PhaseRuntime Phase = "runtime" // instantiation and calls
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidInput   Kind = "invalid_input"
	KindNotInitialized Kind = "not_initialized"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindUnavailable    Kind = "unavailable"
	KindShortRead      Kind = "short_read"
	KindAbort          Kind = "abort"
	KindViolation      Kind = "violation"
	KindRegistration   Kind = "registration"
	KindInstantiation  Kind = "instantiation"
	KindNotFound       Kind = "not_found"
)

// Error is the structured error type used throughout the shim
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(strings.TrimRight(e.Detail, "\n"))
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path (import name, config field)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// MissingRandomSource is returned when a shim is configured without a random byte source
func MissingRandomSource() *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidInput,
		Path:   []string{"RandomBytes"},
		Detail: "a random byte source must be provided in the shim configuration",
	}
}

// NotInitialized creates an error for use before initialization
func NotInitialized(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", what),
	}
}

// OutOfBounds creates an out of bounds memory access error
func OutOfBounds(phase Phase, path []string, offset, length uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("memory access out of bounds: offset=%d, length=%d", offset, length),
		Value:  offset,
		Cause:  cause,
	}
}

// Unavailable creates an error for a capability missing from the environment
func Unavailable(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnavailable,
		Detail: fmt.Sprintf("%s is not available", what),
	}
}

// ShortRead creates an error for a source that returned fewer bytes than requested
func ShortRead(phase Phase, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindShortRead,
		Detail: fmt.Sprintf("requested %d bytes, got %d", want, got),
		Value:  got,
	}
}

// Abort creates a guest abort failure carrying the abort message
func Abort(message string) *Error {
	return &Error{
		Phase:  PhaseGuest,
		Kind:   KindAbort,
		Detail: message,
	}
}

// Violation creates a guest integrity violation failure
func Violation(message string) *Error {
	return &Error{
		Phase:  PhaseGuest,
		Kind:   KindViolation,
		Detail: message,
	}
}

// Registration creates a host function registration error
func Registration(namespace, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindRegistration,
		Path:   []string{namespace, name},
		Detail: "failed to register host function",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// IsAbort reports whether err carries a guest abort or integrity violation
// anywhere in its chain.
func IsAbort(err error) bool {
	return guestFailure(err) != nil
}

// AbortMessage returns the guest message carried by an abort error, or "".
func AbortMessage(err error) string {
	if e := guestFailure(err); e != nil {
		return e.Detail
	}
	return ""
}

func guestFailure(err error) *Error {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Phase == PhaseGuest && (e.Kind == KindAbort || e.Kind == KindViolation) {
			return e
		}
		err = stderrors.Unwrap(err)
	}
	return nil
}
