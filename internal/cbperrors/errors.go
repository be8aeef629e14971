// Package cbperrors defines the structured error taxonomy surfaced at the
// module boundary (spec §6/§7): malformed_trace, empty_trace,
// schema_mismatch, missing_manifest, invalid_config, self_similar_replacement
// and invalid_template_pattern. Each layer that returns one of these wraps
// causal context as it ascends rather than discarding the original error.
package cbperrors

import (
	"fmt"
)

// Kind is a closed enum of the error taxonomy named in spec.md §6.
type Kind string

const (
	MalformedTrace          Kind = "malformed_trace"
	EmptyTrace              Kind = "empty_trace"
	SchemaMismatch          Kind = "schema_mismatch"
	MissingManifest         Kind = "missing_manifest"
	InvalidConfig           Kind = "invalid_config"
	SelfSimilarReplacement  Kind = "self_similar_replacement"
	InvalidTemplatePattern  Kind = "invalid_template_pattern"
)

// Error is the structured error type carried across layer boundaries.
// Path is populated where meaningful (a trace file, a manifest file, a
// config file) and left empty otherwise.
type Error struct {
	Kind       Kind
	Message    string
	Path       string
	Underlying error
}

// New creates a new Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithPath attaches a file path to the error and returns it for chaining.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// Wrap creates an Error of the given kind whose message is context and
// whose Underlying is cause, so the cause's text follows the context.
func Wrap(kind Kind, context string, cause error) *Error {
	return &Error{Kind: kind, Message: context, Underlying: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

// Unwrap returns the underlying cause, enabling errors.Is/As across layers.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is reports whether target is an *Error of the same Kind, letting callers
// write errors.Is(err, cbperrors.New(cbperrors.EmptyTrace, "")) style checks
// against a sentinel built purely to carry a Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
