// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package bind implements conversion between Go values and trees.
//
// A Processor converts a Go value to a tree.Node (ToTree) and a tree.Node to
// a Go value of a given type (FromTree, Decode, To). Construct a Processor
// with a Builder:
//
//	p, err := bind.NewBuilder().
//	   IgnoreNulls(true).
//	   Naming(bind.NamingSnake).
//	   Build()
//
// # Conversion rules
//
// A custom TypeProcessor registered for the exact type of a value takes
// precedence over all other rules. When default type processors are enabled
// (the default), built-in processors handle time.Time, time.Duration,
// big.Int, decimal.Decimal, uuid.UUID, url.URL, net.IP, netip.Addr, and
// netip.AddrPort, and types implementing both encoding.TextMarshaler and
// encoding.TextUnmarshaler are treated as enumerations of their text.
//
// Otherwise values are bound reflectively: booleans, numbers and strings map
// to primitives; slices and arrays map to arrays; maps map to objects with
// their keys in sorted order; pointers and interfaces are followed, with nil
// mapping to null; and structs map to objects with a member for each
// exported field. Decoding into an empty interface produces map[string]any,
// []any, or a scalar value.
//
// # Struct tags
//
// The "bind" tag controls how a struct field is bound:
//
//	Name  string `bind:"name"`             // use the key "name"
//	Skip  int    `bind:"-"`                // never bound
//	Port  int    `bind:",omitdefault" default:"8080"`
//	Note  *string `bind:",omitnull"`
//	Tags  []string `bind:",omitempty"`
//	Level int    `bind:",always"`          // never omitted
//
// Without an explicit name, a field's key is its Go name transformed by the
// processor's Naming policy. The fields of embedded structs are promoted;
// a field at a shallower depth hides one with the same key at a deeper depth.
// The "default" tag gives the value a member is compared against when
// omitting defaults; without it, the default is the member's value in a newly
// instantiated value of its struct type.
package bind

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
	"github.com/rs/zerolog"
)

// DefaultMaxDepth is the default limit on the nesting depth of a conversion.
const DefaultMaxDepth = 512

// Config holds the settings of a Processor.
type Config struct {
	// Omit struct members and map entries whose value is null.
	IgnoreNulls bool

	// Omit struct members whose value equals their default.
	IgnoreDefaults bool

	// Omit struct members and map entries whose value is an empty object or
	// an empty array.
	IgnoreEmptyObjects bool

	// Match enumeration names exactly when decoding. If false, names that
	// differ only in case are accepted.
	CaseSensitiveEnums bool

	// Use the built-in processors for common library types.
	EnableDefaultTypeProcessors bool

	// The policy for deriving keys from field names.
	Naming Naming

	// The maximum nesting depth of a conversion. If zero, DefaultMaxDepth.
	MaxDepth int

	// Options for the built-in processors.
	Defaults DefaultOptions
}

// A Processor converts between Go values and trees. A Processor is immutable
// once built, and is safe for concurrent use by multiple goroutines.
type Processor struct {
	cfg     Config
	custom  *Registry
	builtin map[reflect.Type]TypeProcessor
	enums   map[reflect.Type]*enum
	inst    *Instantiator
	log     zerolog.Logger

	defaults sync.Map // defaultKey → defaultEntry
	descs    sync.Map // descKey → *Descriptor
}

// Config returns a copy of the settings of p.
func (p *Processor) Config() Config { return p.cfg }

// HasProcessor reports whether p has a custom type processor for t.
func (p *Processor) HasProcessor(t reflect.Type) bool { return p.custom.Has(t) }

// Describe returns the descriptor for struct type t under the naming policy
// of p. Unlike the package-level Describe, an embedded struct whose type p
// converts as a unit (by a type processor or as an enumeration) is a single
// member rather than a source of promoted fields.
func (p *Processor) Describe(t reflect.Type) (*Descriptor, error) {
	return describe(&p.descs, t, p.cfg.Naming, p.whole)
}

// whole reports whether p converts values of t as a unit.
func (p *Processor) whole(t reflect.Type) bool {
	if _, ok := p.processorFor(t); ok {
		return true
	}
	_, ok := p.enums[t]
	return ok
}

// New returns a new value of type t from the instantiator of p.
func (p *Processor) New(t reflect.Type) (reflect.Value, error) { return p.inst.New(t) }

// processorFor returns the type processor for t, if there is one.
func (p *Processor) processorFor(t reflect.Type) (TypeProcessor, bool) {
	if tp, ok := p.custom.Get(t); ok {
		return tp, true
	}
	if p.cfg.EnableDefaultTypeProcessors {
		if tp, ok := p.builtin[t]; ok {
			return tp, true
		}
		if _, isEnum := p.enums[t]; !isEnum && isTextual(t) {
			return textProcessor{t: t}, true
		}
	}
	return nil, false
}

func (p *Processor) callToTree(tp TypeProcessor, t reflect.Type, v reflect.Value) (n tree.Node, err error) {
	defer func() {
		if x := recover(); x != nil {
			n, err = nil, errs.ProcessorFailure(t, fmt.Errorf("panic: %v", x))
		}
	}()
	n, err = tp.ToTree(v.Interface())
	if err != nil {
		return nil, procError(t, err)
	} else if n == nil {
		n = tree.Null()
	}
	return n, nil
}

func (p *Processor) callFromTree(tp TypeProcessor, t reflect.Type, n tree.Node) (out reflect.Value, err error) {
	defer func() {
		if x := recover(); x != nil {
			out, err = reflect.Value{}, errs.ProcessorFailure(t, fmt.Errorf("panic: %v", x))
		}
	}()
	res, err := tp.FromTree(n)
	if err != nil {
		return reflect.Value{}, procError(t, err)
	} else if res == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(res)
	switch {
	case rv.Type() == t:
		return rv, nil
	case rv.Type().AssignableTo(t):
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	case rv.Kind() == reflect.Pointer && rv.Type().Elem() == t && !rv.IsNil():
		return rv.Elem(), nil
	case rv.Type().ConvertibleTo(t) && rv.Kind() == t.Kind():
		return rv.Convert(t), nil
	}
	return reflect.Value{}, errs.ProcessorFailure(t, fmt.Errorf("processor returned %T", res))
}

// procError converts an error reported by a type processor for t. An *errs.Error
// keeps its kind; any other error, including one that wraps an *errs.Error,
// becomes the cause of a ProcessorFailure.
func procError(t reflect.Type, err error) error {
	if e, ok := err.(*errs.Error); ok {
		return e.WithType(t)
	}
	return errs.ProcessorFailure(t, err)
}

// withType attributes err to t if it is an *errs.Error without a type. A
// wrapped error is returned as-is so its context is not lost.
func withType(err error, t reflect.Type) error {
	if e, ok := err.(*errs.Error); ok && e.Type == nil {
		return e.WithType(t)
	}
	return err
}

func (p *Processor) checkDepth(depth int) error {
	if depth > p.cfg.MaxDepth {
		return errs.RecursionLimit(p.cfg.MaxDepth)
	}
	return nil
}
