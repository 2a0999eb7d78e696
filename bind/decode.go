// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind

import (
	"encoding"
	"errors"
	"reflect"
	"strconv"

	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
)

// FromTree converts n to a new value of type t. Struct values are allocated
// by the instantiator of p, and members absent from n keep the values given
// to them by the instantiator.
func (p *Processor) FromTree(n tree.Node, t reflect.Type) (any, error) {
	v, err := p.decode(n, t, 0)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Decode converts n to a new value of the type pointed to by ptr, and stores
// the result in *ptr. The previous contents of *ptr are replaced.
func (p *Processor) Decode(n tree.Node, ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errs.TypeMismatch("decode target must be a non-nil pointer, not %T", ptr)
	}
	v, err := p.decode(n, rv.Type().Elem(), 0)
	if err != nil {
		return err
	}
	rv.Elem().Set(v)
	return nil
}

// To converts n to a new value of type T using p.
func To[T any](p *Processor, n tree.Node) (T, error) {
	var out T
	err := p.Decode(n, &out)
	return out, err
}

func (p *Processor) decode(n tree.Node, t reflect.Type, depth int) (reflect.Value, error) {
	if err := p.checkDepth(depth); err != nil {
		return reflect.Value{}, err
	}
	if n == nil {
		n = tree.Null()
	}
	if tp, ok := p.processorFor(t); ok {
		return p.callFromTree(tp, t, n)
	}
	if e, ok := p.enums[t]; ok {
		v, err := e.lookup(n, p.cfg.CaseSensitiveEnums)
		if err != nil {
			p.log.Warn().Stringer("type", t).Stringer("node", n).Msg("unknown enum member")
			return reflect.Value{}, err
		}
		return v, nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		if tree.IsNull(n) {
			return reflect.Zero(t), nil
		}
		ev, err := p.decode(n, t.Elem(), depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(ev)
		return ptr, nil

	case reflect.Interface:
		if tree.IsNull(n) {
			return reflect.Zero(t), nil
		}
		if t.NumMethod() != 0 {
			return reflect.Value{}, errs.InitializationFailure(t, errors.New("interface has methods"))
		}
		v, err := p.natural(n, depth)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		out.Set(reflect.ValueOf(v))
		return out, nil

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.String:
		v, err := decodeScalar(n, t)
		return v, withType(err, t)

	case reflect.Slice:
		if tree.IsNull(n) {
			return reflect.Zero(t), nil
		}
		a, err := tree.AsArray(n)
		if err != nil {
			return reflect.Value{}, withType(err, t)
		}
		out, err := p.inst.MakeSlice(t, a.Len())
		if err != nil {
			return reflect.Value{}, err
		}
		return out, p.decodeElements(a, out, depth)

	case reflect.Array:
		a, err := tree.AsArray(n)
		if err != nil {
			return reflect.Value{}, withType(err, t)
		} else if a.Len() != t.Len() {
			return reflect.Value{}, errs.TypeMismatch("array has %d elements, want %d", a.Len(), t.Len()).WithType(t)
		}
		out, err := p.inst.Raw(t)
		if err != nil {
			return reflect.Value{}, err
		}
		return out, p.decodeElements(a, out, depth)

	case reflect.Map:
		if tree.IsNull(n) {
			return reflect.Zero(t), nil
		}
		return p.decodeMap(n, t, depth)

	case reflect.Struct:
		return p.decodeStruct(n, t, depth)

	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		_, err := p.inst.New(t)
		return reflect.Value{}, err
	}
	return reflect.Value{}, errs.TypeMismatch("cannot convert a tree to a %v", t.Kind()).WithType(t)
}

func (p *Processor) decodeElements(a *tree.Array, out reflect.Value, depth int) error {
	et := out.Type().Elem()
	for i, e := range a.Values() {
		ev, err := p.decode(e, et, depth+1)
		if err != nil {
			return errs.At(err, errs.Index(i))
		}
		out.Index(i).Set(ev)
	}
	return nil
}

func (p *Processor) decodeMap(n tree.Node, t reflect.Type, depth int) (reflect.Value, error) {
	o, err := tree.AsObject(n)
	if err != nil {
		return reflect.Value{}, withType(err, t)
	}
	out, err := p.inst.MakeMap(t, o.Len())
	if err != nil {
		return reflect.Value{}, err
	}
	for key, e := range o.Entries() {
		kv, err := mapKeyValue(key, t.Key())
		if err != nil {
			return reflect.Value{}, errs.At(err, key)
		}
		ev, err := p.decode(e, t.Elem(), depth+1)
		if err != nil {
			return reflect.Value{}, errs.At(err, key)
		}
		out.SetMapIndex(kv, ev)
	}
	return out, nil
}

// mapKeyValue converts an object key to a map key of type t.
func mapKeyValue(key string, t reflect.Type) (reflect.Value, error) {
	kv := reflect.New(t)
	if t.Kind() != reflect.String {
		if tu, ok := kv.Interface().(encoding.TextUnmarshaler); ok {
			if err := tu.UnmarshalText([]byte(key)); err != nil {
				return reflect.Value{}, errs.TypeMismatch("invalid map key %q: %v", key, err).WithType(t)
			}
			return kv.Elem(), nil
		}
	}
	kv = kv.Elem()
	switch t.Kind() {
	case reflect.String:
		kv.SetString(key)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(key, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, errs.TypeMismatch("invalid map key %q", key).WithType(t)
		}
		kv.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v, err := strconv.ParseUint(key, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, errs.TypeMismatch("invalid map key %q", key).WithType(t)
		}
		kv.SetUint(v)
	default:
		return reflect.Value{}, errs.TypeMismatch("unsupported map key type %v", t).WithType(t)
	}
	return kv, nil
}

func (p *Processor) decodeStruct(n tree.Node, t reflect.Type, depth int) (reflect.Value, error) {
	o, err := tree.AsObject(n)
	if err != nil {
		return reflect.Value{}, withType(err, t)
	}
	d, err := p.Describe(t)
	if err != nil {
		return reflect.Value{}, err
	}
	out, err := p.inst.New(t)
	if err != nil {
		return reflect.Value{}, err
	}
	for _, m := range d.Members {
		e, ok := o.Get(m.Key)
		if !ok {
			continue
		}
		v, err := p.decode(e, m.Type, depth+1)
		if err != nil {
			return reflect.Value{}, errs.At(withType(err, m.Type), m.Key)
		}
		fieldByIndexAlloc(out, m.Index).Set(v)
	}
	return out, nil
}

// fieldByIndexAlloc returns the field of v at the given index path,
// allocating any nil embedded struct pointers along the way.
func fieldByIndexAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// decodeScalar converts n to a boolean, numeric, or string value of type t.
func decodeScalar(n tree.Node, t reflect.Type) (reflect.Value, error) {
	prim, err := tree.AsPrimitive(n)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		b, err := prim.AsBool()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)

	case reflect.Int8:
		v, err := prim.AsByte()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(int64(v))

	case reflect.Int16:
		v, err := prim.AsShort()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(int64(v))

	case reflect.Int32:
		v, err := prim.AsInt32()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(int64(v))

	case reflect.Int, reflect.Int64:
		v, err := prim.AsInt64()
		if err != nil {
			return reflect.Value{}, err
		} else if out.OverflowInt(v) {
			return reflect.Value{}, errs.NumericOverflow("value %v does not fit in %v", prim, t)
		}
		out.SetInt(v)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v, err := prim.AsUint64()
		if err != nil {
			return reflect.Value{}, err
		} else if out.OverflowUint(v) {
			return reflect.Value{}, errs.NumericOverflow("value %v does not fit in %v", prim, t)
		}
		out.SetUint(v)

	case reflect.Float32:
		v, err := prim.AsFloat32()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(float64(v))

	case reflect.Float64:
		v, err := prim.AsFloat64()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(v)

	case reflect.String:
		s, err := prim.AsString()
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetString(s)
	}
	return out, nil
}

// natural converts n to a plain Go value: map[string]any for an object, []any
// for an array, or the value of a primitive.
func (p *Processor) natural(n tree.Node, depth int) (any, error) {
	if err := p.checkDepth(depth); err != nil {
		return nil, err
	}
	switch t := n.(type) {
	case *tree.Object:
		m := make(map[string]any, t.Len())
		for key, v := range t.Entries() {
			nv, err := p.natural(v, depth+1)
			if err != nil {
				return nil, errs.At(err, key)
			}
			m[key] = nv
		}
		return m, nil
	case *tree.Array:
		s := make([]any, t.Len())
		for i, v := range t.Values() {
			nv, err := p.natural(v, depth+1)
			if err != nil {
				return nil, errs.At(err, errs.Index(i))
			}
			s[i] = nv
		}
		return s, nil
	case tree.Primitive:
		return t.Value(), nil
	}
	return nil, nil
}
