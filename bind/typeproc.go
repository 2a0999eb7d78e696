// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind

import (
	"fmt"
	"maps"
	"reflect"

	"github.com/creachadair/jbind/tree"
)

// A TypeProcessor converts values of a specific type to and from a tree,
// bypassing reflective binding for that type.
//
// ToTree receives a value of the registered type. FromTree must return a value
// assignable to the registered type, or nil for the zero value.  Errors
// reported by either method are wrapped as ProcessorFailure unless they are
// already an *errs.Error.
type TypeProcessor interface {
	ToTree(v any) (tree.Node, error)
	FromTree(n tree.Node) (any, error)
}

// Funcs adapts a pair of typed functions to the TypeProcessor interface.
type Funcs[T any] struct {
	To   func(T) (tree.Node, error)
	From func(tree.Node) (T, error)
}

// ToTree implements part of TypeProcessor.
func (f Funcs[T]) ToTree(v any) (tree.Node, error) {
	t, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("got value of type %T, want %v", v, reflect.TypeFor[T]())
	}
	return f.To(t)
}

// FromTree implements part of TypeProcessor.
func (f Funcs[T]) FromTree(n tree.Node) (any, error) { return f.From(n) }

// A Registry maps types to their type processors.
// A zero Registry is empty and ready for use.
type Registry struct {
	m map[reflect.Type]TypeProcessor
}

// Register adds p as the processor for type t. It reports an error if t
// already has a processor registered.
func (r *Registry) Register(t reflect.Type, p TypeProcessor) error {
	if t == nil || p == nil {
		return fmt.Errorf("invalid registration (type %v, processor %v)", t, p)
	}
	if _, ok := r.m[t]; ok {
		return fmt.Errorf("type %v already has a processor", t)
	}
	if r.m == nil {
		r.m = make(map[reflect.Type]TypeProcessor)
	}
	r.m[t] = p
	return nil
}

// Unregister removes the processor for type t, and reports whether one was
// registered.
func (r *Registry) Unregister(t reflect.Type) bool {
	_, ok := r.m[t]
	delete(r.m, t)
	return ok
}

// Has reports whether a processor is registered for type t.
func (r *Registry) Has(t reflect.Type) bool { _, ok := r.m[t]; return ok }

// Get returns the processor registered for type t, if any.
func (r *Registry) Get(t reflect.Type) (TypeProcessor, bool) {
	p, ok := r.m[t]
	return p, ok
}

// Len reports the number of registered processors.
func (r *Registry) Len() int { return len(r.m) }

func (r *Registry) clone() *Registry { return &Registry{m: maps.Clone(r.m)} }
