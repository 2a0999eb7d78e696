// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind

import (
	"errors"
	"fmt"
	"maps"
	"reflect"

	"github.com/rs/zerolog"
)

// A Builder accumulates the settings for a Processor. The zero Builder is not
// ready for use; call NewBuilder.
//
// Settings may be changed only through the builder. A Processor built from it
// is unaffected by subsequent changes to the builder.
type Builder struct {
	cfg   Config
	reg   *Registry
	enums map[reflect.Type]*enum
	ctors map[reflect.Type]Constructor
	log   zerolog.Logger
	errs  []error
}

// NewBuilder returns a builder with default settings: no members are omitted,
// enumerations match without regard to case, and the default type processors
// are enabled.
func NewBuilder() *Builder {
	return &Builder{
		cfg: Config{
			EnableDefaultTypeProcessors: true,
			MaxDepth:                    DefaultMaxDepth,
		},
		reg:   new(Registry),
		enums: make(map[reflect.Type]*enum),
		ctors: make(map[reflect.Type]Constructor),
		log:   zerolog.Nop(),
	}
}

// WithConfig replaces the settings of b with cfg. Registered processors,
// enumerations, and constructors are not affected.
func (b *Builder) WithConfig(cfg Config) *Builder { b.cfg = cfg; return b }

// IgnoreNulls sets whether null members are omitted.
func (b *Builder) IgnoreNulls(on bool) *Builder { b.cfg.IgnoreNulls = on; return b }

// IgnoreDefaults sets whether members equal to their defaults are omitted.
func (b *Builder) IgnoreDefaults(on bool) *Builder { b.cfg.IgnoreDefaults = on; return b }

// IgnoreEmptyObjects sets whether members that are empty objects or arrays are
// omitted.
func (b *Builder) IgnoreEmptyObjects(on bool) *Builder { b.cfg.IgnoreEmptyObjects = on; return b }

// CaseSensitiveEnums sets whether enumeration names must match exactly.
func (b *Builder) CaseSensitiveEnums(on bool) *Builder { b.cfg.CaseSensitiveEnums = on; return b }

// EnableDefaultTypeProcessors sets whether the built-in processors are used.
func (b *Builder) EnableDefaultTypeProcessors(on bool) *Builder {
	b.cfg.EnableDefaultTypeProcessors = on
	return b
}

// Naming sets the policy for deriving keys from field names.
func (b *Builder) Naming(n Naming) *Builder { b.cfg.Naming = n; return b }

// MaxDepth sets the maximum nesting depth of a conversion.
func (b *Builder) MaxDepth(n int) *Builder { b.cfg.MaxDepth = n; return b }

// DefaultOptions sets the options for the built-in processors.
func (b *Builder) DefaultOptions(opts DefaultOptions) *Builder { b.cfg.Defaults = opts; return b }

// Logger sets the logger used to report recoverable problems.
func (b *Builder) Logger(log zerolog.Logger) *Builder { b.log = log; return b }

// Register adds a custom processor for type t. It is an error, reported by
// Build, to register more than one processor for the same type.
func (b *Builder) Register(t reflect.Type, p TypeProcessor) *Builder {
	if err := b.reg.Register(t, p); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Unregister removes the custom processor for type t, if any.
func (b *Builder) Unregister(t reflect.Type) *Builder { b.reg.Unregister(t); return b }

// Has reports whether a custom processor is registered for type t.
func (b *Builder) Has(t reflect.Type) bool { return b.reg.Has(t) }

// Get returns the custom processor registered for type t, if any.
func (b *Builder) Get(t reflect.Type) (TypeProcessor, bool) { return b.reg.Get(t) }

// RegisterEnum registers an enumeration type whose members are the given
// values, which must all have the same type. Each member is named by its
// String method. Values of the type are encoded as their names.
func (b *Builder) RegisterEnum(values ...fmt.Stringer) *Builder {
	e, err := newEnum(values)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.enums[e.t] = e
	return b
}

// Constructor registers a constructor used to instantiate values of type t.
func (b *Builder) Constructor(t reflect.Type, c Constructor) *Builder {
	if c == nil {
		delete(b.ctors, t)
	} else {
		b.ctors[t] = c
	}
	return b
}

// Build returns a new Processor with the settings of b.
func (b *Builder) Build() (*Processor, error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, fmt.Errorf("invalid processor settings: %w", err)
	}
	cfg := b.cfg
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	ctors := maps.Clone(b.ctors)
	return &Processor{
		cfg:     cfg,
		custom:  b.reg.clone(),
		builtin: builtinProcessors(cfg.Defaults),
		enums:   maps.Clone(b.enums),
		inst:    NewInstantiator(ctors, b.log),
		log:     b.log,
	}, nil
}

// MustBuild is as Build, but panics if the settings are invalid.
func (b *Builder) MustBuild() *Processor {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

// Default is a processor with the default settings.
var Default = NewBuilder().MustBuild()
