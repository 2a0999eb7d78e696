// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package errs_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/creachadair/jbind/errs"
	"github.com/google/go-cmp/cmp"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *errs.Error
		want string
	}{
		{"KindOnly", &errs.Error{Kind: errs.KindTypeMismatch}, "type mismatch"},
		{"Message", errs.NumericOverflow("value %d does not fit in %s", 300, "int8"),
			"numeric overflow: value 300 does not fit in int8"},
		{"PathAndType", &errs.Error{
			Kind:    errs.KindEnumExpected,
			Type:    reflect.TypeFor[int](),
			Path:    []string{"a", "[2]", "b"},
			Message: "no member named \"x\"",
		}, `enum expected at a[2].b (type int): no member named "x"`},
		{"Cause", errs.ProcessorFailure(nil, errors.New("boom")), "processor failure: boom"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("Error: got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("decode: %w", errs.TypeMismatch("want object"))

	if !errors.Is(err, errs.ErrTypeMismatch) {
		t.Errorf("Is(%v, TypeMismatch): got false, want true", err)
	}
	if errors.Is(err, errs.ErrNumericOverflow) {
		t.Errorf("Is(%v, NumericOverflow): got true, want false", err)
	}
	if errors.Is(errors.New("other"), errs.ErrTypeMismatch) {
		t.Error("Is(other, TypeMismatch): got true, want false")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := errs.ProcessorFailure(reflect.TypeFor[string](), cause)

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap: got %v, want %v", got, cause)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Is(%v, cause): got false, want true", err)
	}
	if !errors.Is(err, errs.ErrProcessorFailure) {
		t.Errorf("Is(%v, ProcessorFailure): got false, want true", err)
	}
}

func TestAt(t *testing.T) {
	base := errs.TypeMismatch("want string")
	err := errs.At(errs.At(errs.At(base, "name"), errs.Index(3)), "users")

	var e *errs.Error
	if !errors.As(err, &e) {
		t.Fatalf("At: got %T, want *errs.Error", err)
	}
	if e.Key != "name" {
		t.Errorf("Key: got %q, want name", e.Key)
	}
	if diff := cmp.Diff(e.Path, []string{"users", "[3]", "name"}); diff != "" {
		t.Errorf("Path (-got, +want):\n%s", diff)
	}
	if got, want := e.PathString(), "users[3].name"; got != want {
		t.Errorf("PathString: got %q, want %q", got, want)
	}

	// The original error is not modified.
	if len(base.Path) != 0 {
		t.Errorf("Base path: got %q, want empty", base.Path)
	}

	// Non-*Error values pass through unchanged.
	plain := errors.New("plain")
	if got := errs.At(plain, "x"); got != plain {
		t.Errorf("At(plain): got %v, want %v", got, plain)
	}
}

func TestWithType(t *testing.T) {
	e := errs.TypeMismatch("bad")
	typ := reflect.TypeFor[float64]()

	got := e.WithType(typ)
	if got.Type != typ {
		t.Errorf("WithType: got %v, want %v", got.Type, typ)
	}
	if e.Type != nil {
		t.Errorf("Original type: got %v, want nil", e.Type)
	}

	// An existing type is retained.
	if other := got.WithType(reflect.TypeFor[int]()); other.Type != typ {
		t.Errorf("WithType again: got %v, want %v", other.Type, typ)
	}
}
