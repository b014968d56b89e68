package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrUnterminatedToken = NewError("unterminated placeholder token")
	ErrUnmatchedBrace    = NewError("unmatched brace in commandline")
	ErrNestedToken       = NewError("brace inside placeholder token must be doubled")
	ErrBadName           = NewError("invalid placeholder name")
	ErrUnknownModifier   = NewError("unknown modifier")
	ErrToggleValues      = NewError("toggle placeholder requires off:on values")
	ErrToggleModifier    = NewError("toggle placeholders do not accept modifiers")
	ErrInconsistent      = NewError("placeholder repeated with conflicting declarations")
	ErrToggleCollision   = NewError("name used for both toggle and value placeholders")
	ErrUnresolved        = NewError("unresolved placeholders")
	ErrBadEnvOp          = NewError("malformed environment op")
	ErrBadRunArg         = NewError("malformed run argument")
	ErrBadValsArg        = NewError("malformed vals argument")
	ErrEmptyCmdline      = NewError("commandline must be nonempty")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is matches sentinel errors by message, so derived copies made with [Wrap]
// or [With] still satisfy errors.Is against the original sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// UnresolvedError reports every non-toggle placeholder of a commandline that
// has neither a runtime value, an env-op value, nor a declared default. It is
// returned whole so the caller can report all missing names at once.
type UnresolvedError struct {
	Names []string // missing placeholder names, order of first occurrence
}

// Error implements the error interface.
func (e *UnresolvedError) Error() string {
	return ErrUnresolved.Error() + ": " + strings.Join(e.Names, " ")
}

// Is reports whether target is the [ErrUnresolved] sentinel.
func (e *UnresolvedError) Is(target error) bool {
	return target == ErrUnresolved //nolint:err113
}

// LogValue implements slog.LogValuer.
func (e *UnresolvedError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUnresolved.Error()),
		slog.String("placeholders", strings.Join(e.Names, " ")),
	)
}
