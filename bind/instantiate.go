// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind

import (
	"fmt"
	"reflect"

	"github.com/creachadair/jbind/errs"
	"github.com/rs/zerolog"
)

// A Defaulter is implemented by types whose ordinary construction path sets
// fields to non-zero defaults. The instantiator calls Defaults on a pointer
// to a freshly allocated zero value.
type Defaulter interface {
	Defaults()
}

// A Constructor returns a new default-populated value of a specific type, or
// a pointer to one.
type Constructor func() (any, error)

var defaulterType = reflect.TypeFor[Defaulter]()

// An Instantiator produces new values of a type for use as decoding targets.
//
// Construction proceeds in two tiers. First, the ordinary construction path:
// a Constructor registered for the type, or else the type's Defaults method
// if it implements Defaulter. If there is no such path, or if it reports an
// error or panics, the instantiator falls back to allocating a zero value
// without running any user code.
type Instantiator struct {
	ctors map[reflect.Type]Constructor
	log   zerolog.Logger
}

// NewInstantiator constructs an Instantiator using the given constructors,
// which may be nil. Fallbacks are logged to log.
func NewInstantiator(ctors map[reflect.Type]Constructor, log zerolog.Logger) *Instantiator {
	return &Instantiator{ctors: ctors, log: log}
}

// New returns a new addressable value of type t. It reports an error of kind
// InitializationFailure if t is an interface, function, channel, or unsafe
// pointer type, which cannot be allocated concretely.
func (in *Instantiator) New(t reflect.Type) (reflect.Value, error) {
	if err := checkInstantiable(t); err != nil {
		return reflect.Value{}, err
	}
	if v, ok := in.construct(t); ok {
		return v, nil
	}
	return reflect.New(t).Elem(), nil
}

// Raw returns a new addressable zero value of type t without running any user
// code.
func (in *Instantiator) Raw(t reflect.Type) (reflect.Value, error) {
	if err := checkInstantiable(t); err != nil {
		return reflect.Value{}, err
	}
	return reflect.New(t).Elem(), nil
}

// MakeSlice returns a new slice of type t with length and capacity n.
func (in *Instantiator) MakeSlice(t reflect.Type, n int) (reflect.Value, error) {
	if t.Kind() != reflect.Slice {
		return reflect.Value{}, errs.InitializationFailure(t, fmt.Errorf("not a slice type"))
	}
	return reflect.MakeSlice(t, n, n), nil
}

// MakeMap returns a new empty map of type t with room for n entries.
func (in *Instantiator) MakeMap(t reflect.Type, n int) (reflect.Value, error) {
	if t.Kind() != reflect.Map {
		return reflect.Value{}, errs.InitializationFailure(t, fmt.Errorf("not a map type"))
	}
	return reflect.MakeMapWithSize(t, n), nil
}

func checkInstantiable(t reflect.Type) error {
	if t == nil {
		return errs.InitializationFailure(nil, fmt.Errorf("no type"))
	}
	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return errs.InitializationFailure(t, fmt.Errorf("cannot allocate a %v", t.Kind()))
	}
	return nil
}

// construct attempts the ordinary construction path for t, and reports
// whether it succeeded.
func (in *Instantiator) construct(t reflect.Type) (_ reflect.Value, ok bool) {
	if ctor, found := in.ctors[t]; found {
		v, err := callConstructor(t, ctor)
		if err == nil {
			return v, true
		}
		in.log.Warn().Err(err).Stringer("type", t).Msg("constructor failed; allocating zero value")
		return reflect.Value{}, false
	}
	if reflect.PointerTo(t).Implements(defaulterType) {
		ptr := reflect.New(t)
		if err := callDefaults(ptr.Interface().(Defaulter)); err != nil {
			in.log.Warn().Err(err).Stringer("type", t).Msg("defaults failed; allocating zero value")
			return reflect.Value{}, false
		}
		return ptr.Elem(), true
	}
	return reflect.Value{}, false
}

func callConstructor(t reflect.Type, ctor Constructor) (_ reflect.Value, err error) {
	defer func() {
		if x := recover(); x != nil {
			err = fmt.Errorf("constructor panicked: %v", x)
		}
	}()
	obj, err := ctor()
	if err != nil {
		return reflect.Value{}, err
	}
	v := reflect.ValueOf(obj)
	switch {
	case !v.IsValid():
		return reflect.Value{}, fmt.Errorf("constructor returned nil")
	case v.Type() == t:
		out := reflect.New(t).Elem()
		out.Set(v)
		return out, nil
	case v.Type() == reflect.PointerTo(t):
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("constructor returned nil")
		}
		out := reflect.New(t).Elem()
		out.Set(v.Elem())
		return out, nil
	}
	return reflect.Value{}, fmt.Errorf("constructor returned %v, want %v", v.Type(), t)
}

func callDefaults(d Defaulter) (err error) {
	defer func() {
		if x := recover(); x != nil {
			err = fmt.Errorf("defaults panicked: %v", x)
		}
	}()
	d.Defaults()
	return nil
}
