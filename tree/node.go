// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package tree implements a format-independent representation of structured
// data as a tree of objects, arrays, and primitive values.
//
// A Node is one of *Object, *Array, or Primitive. Objects are string-keyed
// mappings that preserve insertion order; arrays are ordered sequences;
// primitives are immutable scalar values of a closed set of kinds.
//
// Trees are not graphs: a container node has at most one parent. Inserting a
// node that already belongs to a container stores a deep copy of it instead,
// so that a later change to one is never observed through the other. A node
// removed from its parent is detached and may be inserted elsewhere without
// copying.
//
// Trees have no internal synchronization. Concurrent mutation of the same tree
// is the caller's responsibility.
package tree

import (
	"github.com/creachadair/jbind/errs"
)

// A Node is an element of a tree: an *Object, an *Array, or a Primitive.
type Node interface {
	// String renders the node as compact JSON-like text for diagnostics.
	String() string

	node()
}

// IsObject reports whether n is an *Object.
func IsObject(n Node) bool { _, ok := n.(*Object); return ok }

// IsArray reports whether n is an *Array.
func IsArray(n Node) bool { _, ok := n.(*Array); return ok }

// IsPrimitive reports whether n is a Primitive.
func IsPrimitive(n Node) bool { _, ok := n.(Primitive); return ok }

// IsNull reports whether n is nil or the null primitive.
func IsNull(n Node) bool {
	p, ok := n.(Primitive)
	return n == nil || (ok && p.IsNull())
}

// AsObject returns n as an *Object, or reports an error of kind TypeMismatch.
func AsObject(n Node) (*Object, error) {
	if o, ok := n.(*Object); ok {
		return o, nil
	}
	return nil, errs.TypeMismatch("got %s, want object", Describe(n))
}

// AsArray returns n as an *Array, or reports an error of kind TypeMismatch.
func AsArray(n Node) (*Array, error) {
	if a, ok := n.(*Array); ok {
		return a, nil
	}
	return nil, errs.TypeMismatch("got %s, want array", Describe(n))
}

// AsPrimitive returns n as a Primitive, or reports an error of kind
// TypeMismatch. A nil node is treated as Null.
func AsPrimitive(n Node) (Primitive, error) {
	switch t := n.(type) {
	case nil:
		return Null(), nil
	case Primitive:
		return t, nil
	}
	return Primitive{}, errs.TypeMismatch("got %s, want primitive", Describe(n))
}

// Describe returns a short label for the variant of n, for use in messages.
func Describe(n Node) string {
	switch t := n.(type) {
	case nil:
		return "null"
	case *Object:
		return "object"
	case *Array:
		return "array"
	case Primitive:
		if t.IsNull() {
			return "null"
		}
		return "primitive " + t.kind.String()
	}
	return "unknown node"
}

// Clone returns a deep copy of n. The copy of a container is detached.
func Clone(n Node) Node {
	switch t := n.(type) {
	case *Object:
		return t.Clone()
	case *Array:
		return t.Clone()
	case nil:
		return Null()
	}
	return n
}

// link records the parent of a container node.
type link struct{ parent Node }

func linkOf(n Node) *link {
	switch t := n.(type) {
	case *Object:
		return &t.link
	case *Array:
		return &t.link
	}
	return nil
}

// adopt prepares n for storage as a child of parent. A nil node becomes Null.
// A container that already has a parent, or that is parent itself or one of
// its ancestors, is replaced by a deep copy.
func adopt(parent, n Node) Node {
	if n == nil {
		return Null()
	}
	lk := linkOf(n)
	if lk == nil {
		return n
	}
	if lk.parent != nil || reaches(parent, n) {
		n = Clone(n)
		lk = linkOf(n)
	}
	lk.parent = parent
	return n
}

// detach marks n as having no parent.
func detach(n Node) {
	if lk := linkOf(n); lk != nil {
		lk.parent = nil
	}
}

// reaches reports whether target is from or one of its ancestors.
func reaches(from, target Node) bool {
	for p := from; p != nil; p = linkOf(p).parent {
		if p == target {
			return true
		}
	}
	return false
}

// Attached reports whether n is currently stored in a container.
func Attached(n Node) bool {
	lk := linkOf(n)
	return lk != nil && lk.parent != nil
}
