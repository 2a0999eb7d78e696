// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
)

// An enum records the members of a registered enumeration type.
type enum struct {
	t      reflect.Type
	names  []string
	values []reflect.Value
}

// newEnum constructs an enum from a list of member values, which must all
// share a single type. Member names are given by their String methods.
func newEnum(values []fmt.Stringer) (*enum, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("enum has no members")
	}
	e := &enum{t: reflect.TypeOf(values[0])}
	if !e.t.Comparable() {
		return nil, fmt.Errorf("enum type %v is not comparable", e.t)
	}
	for _, v := range values {
		if vt := reflect.TypeOf(v); vt != e.t {
			return nil, fmt.Errorf("enum member %v has type %v, want %v", v, vt, e.t)
		}
		e.names = append(e.names, v.String())
		e.values = append(e.values, reflect.ValueOf(v))
	}
	return e, nil
}

// name returns the name of v, which must be of the enum type.
func (e *enum) name(v reflect.Value) (string, error) {
	for i, m := range e.values {
		if m.Equal(v) {
			return e.names[i], nil
		}
	}
	return "", errs.EnumExpected(e.t, "value %v is not a member", v)
}

// lookup returns the member whose name matches the string value of n.
// An exact match is preferred; otherwise, if caseSensitive is false, the first
// member whose name matches under Unicode case folding is chosen.
func (e *enum) lookup(n tree.Node, caseSensitive bool) (reflect.Value, error) {
	p, ok := n.(tree.Primitive)
	if !ok || p.Kind() != tree.KindString {
		return reflect.Value{}, errs.EnumExpected(e.t, "got %s, want string", tree.Describe(n))
	}
	s, _ := p.AsString()
	for i, name := range e.names {
		if name == s {
			return e.values[i], nil
		}
	}
	if !caseSensitive {
		for i, name := range e.names {
			if strings.EqualFold(name, s) {
				return e.values[i], nil
			}
		}
	}
	return reflect.Value{}, errs.EnumExpected(e.t, "no member named %q", s)
}
