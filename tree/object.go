// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// An Object is an ordered collection of string-keyed members. Keys are unique
// and iterate in insertion order. Overwriting an existing key keeps its
// original position.
type Object struct {
	link
	m *orderedmap.OrderedMap // values are Node
}

func (*Object) node() {}

// NewObject returns a new empty object.
func NewObject() *Object { return &Object{m: orderedmap.New()} }

// Len reports the number of members in o.
func (o *Object) Len() int { return len(o.m.Keys()) }

// Get returns the value of the member with the given key, and reports whether
// it was present. The result is a reference into o, not a copy.
func (o *Object) Get(key string) (Node, bool) {
	v, ok := o.m.Get(key)
	if !ok {
		return nil, false
	}
	return v.(Node), true
}

// Has reports whether o has a member with the given key.
func (o *Object) Has(key string) bool { _, ok := o.m.Get(key); return ok }

// Set sets the value of the member with the given key, adding it at the end
// if it is not already present. A nil value is stored as Null. If n is a
// container already stored elsewhere, a copy of it is stored instead.
// Set returns o to permit chaining.
func (o *Object) Set(key string, n Node) *Object {
	n = adopt(o, n)
	if old, ok := o.m.Get(key); ok {
		detach(old.(Node))
	}
	o.m.Set(key, n)
	return o
}

// Remove removes the member with the given key, and reports whether it was
// present. The removed value is detached and may be reused.
func (o *Object) Remove(key string) bool {
	old, ok := o.m.Get(key)
	if ok {
		detach(old.(Node))
		o.m.Delete(key)
	}
	return ok
}

// Keys returns a slice of the keys of o in insertion order.  The caller may
// modify the slice without affecting o.
func (o *Object) Keys() []string { return slices.Clone(o.m.Keys()) }

// Entries returns a sequence of the members of o in insertion order. The
// sequence may be iterated more than once. Modifying o during iteration does
// not affect the members visited by an iteration already in progress.
func (o *Object) Entries() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		for _, key := range o.Keys() {
			v, ok := o.m.Get(key)
			if !ok {
				continue // removed during iteration
			}
			if !yield(key, v.(Node)) {
				return
			}
		}
	}
}

// Clone returns a detached deep copy of o.
func (o *Object) Clone() *Object {
	c := NewObject()
	for key, v := range o.Entries() {
		c.Set(key, Clone(v))
	}
	return c
}

// String renders o as compact JSON-like text.
func (o *Object) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, key := range o.m.Keys() {
		if i > 0 {
			sb.WriteByte(',')
		}
		v, _ := o.m.Get(key)
		sb.WriteString(strconv.Quote(key))
		sb.WriteByte(':')
		sb.WriteString(v.(Node).String())
	}
	sb.WriteByte('}')
	return sb.String()
}
