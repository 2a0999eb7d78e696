// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package errs defines the typed failures reported by the tree and binding
// packages.
//
// Every failure is an *Error carrying a Kind. Use errors.Is with one of the
// sentinel values to test the kind of a failure, or errors.As to recover the
// offending type and member key:
//
//	var e *errs.Error
//	if errors.As(err, &e) {
//	   log.Printf("%v at %s (type %v)", e.Kind, e.PathString(), e.Type)
//	}
package errs

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Kind classifies a failure.
type Kind string

// Constants defining the valid Kind values.
const (
	KindTypeMismatch           Kind = "type mismatch"
	KindNumericOverflow        Kind = "numeric overflow"
	KindIndexOutOfRange        Kind = "index out of range"
	KindEnumExpected           Kind = "enum expected"
	KindInitializationFailure  Kind = "initialization failure"
	KindRecursionLimitExceeded Kind = "recursion limit exceeded"
	KindProcessorFailure       Kind = "processor failure"
)

// Sentinel errors for use with errors.Is. An *Error matches a sentinel when
// their kinds agree.
var (
	ErrTypeMismatch           = &Error{Kind: KindTypeMismatch}
	ErrNumericOverflow        = &Error{Kind: KindNumericOverflow}
	ErrIndexOutOfRange        = &Error{Kind: KindIndexOutOfRange}
	ErrEnumExpected           = &Error{Kind: KindEnumExpected}
	ErrInitializationFailure  = &Error{Kind: KindInitializationFailure}
	ErrRecursionLimitExceeded = &Error{Kind: KindRecursionLimitExceeded}
	ErrProcessorFailure       = &Error{Kind: KindProcessorFailure}
)

// Error is the concrete type of failures reported by this module.
type Error struct {
	Kind    Kind
	Message string

	// Type is the native type being converted when the failure occurred, if
	// known.
	Type reflect.Type

	// Key is the external key of the innermost member being converted, if
	// any. Path records the complete sequence of keys and indices from the
	// root of the conversion; array indices are rendered as "[i]".
	Key  string
	Path []string

	// Err is the underlying cause, if any.
	Err error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if len(e.Path) != 0 {
		fmt.Fprintf(&sb, " at %s", e.PathString())
	}
	if e.Type != nil {
		fmt.Fprintf(&sb, " (type %v)", e.Type)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

// Unwrap returns the underlying cause of e, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind as e.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// PathString renders the path of e as a dotted string, e.g. "a.b[2].c".
func (e *Error) PathString() string {
	var sb strings.Builder
	for i, p := range e.Path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			sb.WriteByte('.')
		}
		sb.WriteString(p)
	}
	return sb.String()
}

// New constructs an *Error of the given kind with a formatted message.
func New(kind Kind, msg string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(msg, args...)}
}

// TypeMismatch constructs a KindTypeMismatch error.
func TypeMismatch(msg string, args ...any) *Error { return New(KindTypeMismatch, msg, args...) }

// NumericOverflow constructs a KindNumericOverflow error.
func NumericOverflow(msg string, args ...any) *Error { return New(KindNumericOverflow, msg, args...) }

// IndexOutOfRange constructs a KindIndexOutOfRange error for index i of a
// sequence of length n.
func IndexOutOfRange(i, n int) *Error {
	return New(KindIndexOutOfRange, "index %d out of bounds (n=%d)", i, n)
}

// EnumExpected constructs a KindEnumExpected error for enum type t.
func EnumExpected(t reflect.Type, msg string, args ...any) *Error {
	e := New(KindEnumExpected, msg, args...)
	e.Type = t
	return e
}

// InitializationFailure constructs a KindInitializationFailure error for t.
func InitializationFailure(t reflect.Type, cause error) *Error {
	return &Error{Kind: KindInitializationFailure, Type: t, Message: "no viable construction path", Err: cause}
}

// RecursionLimit constructs a KindRecursionLimitExceeded error.
func RecursionLimit(depth int) *Error {
	return New(KindRecursionLimitExceeded, "nesting depth exceeds %d", depth)
}

// ProcessorFailure wraps err, reported by the type processor for t.
func ProcessorFailure(t reflect.Type, err error) *Error {
	return &Error{Kind: KindProcessorFailure, Type: t, Err: err}
}

// WithType returns a copy of e with its type set to t, if not already set.
func (e *Error) WithType(t reflect.Type) *Error {
	if e.Type != nil {
		return e
	}
	c := *e
	c.Type = t
	return &c
}

// At returns err annotated with a path segment prepended to its path.  If err
// is an *Error, its innermost key is set if not already present; otherwise err
// is returned unchanged. Index segments have the form "[i]" and do not set the
// key.
func At(err error, seg string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	c := *e
	c.Path = append([]string{seg}, e.Path...)
	if c.Key == "" && !strings.HasPrefix(seg, "[") {
		c.Key = seg
	}
	return &c
}

// Index formats an array index as a path segment.
func Index(i int) string { return fmt.Sprintf("[%d]", i) }
