// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind

import (
	"cmp"
	"encoding"
	"reflect"
	"slices"
	"strconv"

	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
)

// ToTree converts v to a tree. A nil v converts to Null.
func (p *Processor) ToTree(v any) (tree.Node, error) {
	return p.encode(reflect.ValueOf(v), 0)
}

func (p *Processor) encode(v reflect.Value, depth int) (tree.Node, error) {
	if err := p.checkDepth(depth); err != nil {
		return nil, err
	}
	if !v.IsValid() {
		return tree.Null(), nil
	}
	t := v.Type()
	if tp, ok := p.processorFor(t); ok {
		return p.callToTree(tp, t, v)
	}
	if e, ok := p.enums[t]; ok {
		name, err := e.name(v)
		if err != nil {
			return nil, err
		}
		return tree.String(name), nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return tree.Null(), nil
		}
		return p.encode(v.Elem(), depth+1)

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.String:
		return tree.From(v.Interface())

	case reflect.Slice:
		if v.IsNil() {
			return tree.Null(), nil
		}
		fallthrough
	case reflect.Array:
		a := tree.NewArray()
		for i := range v.Len() {
			n, err := p.encode(v.Index(i), depth+1)
			if err != nil {
				return nil, errs.At(err, errs.Index(i))
			}
			a.Add(n)
		}
		return a, nil

	case reflect.Map:
		if v.IsNil() {
			return tree.Null(), nil
		}
		return p.encodeMap(v, depth)

	case reflect.Struct:
		return p.encodeStruct(v, depth)
	}
	return nil, errs.TypeMismatch("cannot convert a %v to a tree", v.Kind()).WithType(t)
}

func (p *Processor) encodeMap(v reflect.Value, depth int) (tree.Node, error) {
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, v.Len())
	for it := v.MapRange(); it.Next(); {
		key, err := mapKeyString(it.Key())
		if err != nil {
			return nil, withType(err, v.Type())
		}
		entries = append(entries, entry{key, it.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.key, b.key) })

	obj := tree.NewObject()
	for _, e := range entries {
		n, err := p.encode(e.val, depth+1)
		if err != nil {
			return nil, errs.At(err, e.key)
		}
		if (p.cfg.IgnoreNulls && tree.IsNull(n)) || (p.cfg.IgnoreEmptyObjects && isEmptyContainer(n)) {
			continue
		}
		obj.Set(e.key, n)
	}
	return obj, nil
}

// mapKeyString returns the object key for the map key k.
func mapKeyString(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		text, err := tm.MarshalText()
		return string(text), err
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", errs.TypeMismatch("unsupported map key type %v", k.Type())
}

func (p *Processor) encodeStruct(v reflect.Value, depth int) (tree.Node, error) {
	d, err := p.Describe(v.Type())
	if err != nil {
		return nil, err
	}
	obj := tree.NewObject()
	for i, m := range d.Members {
		fv, err := v.FieldByIndexErr(m.Index)
		if err != nil {
			continue // promoted through a nil embedded pointer
		}
		n, err := p.encode(fv, depth+1)
		if err != nil {
			return nil, errs.At(withType(err, m.Type), m.Key)
		}
		omit, err := p.omit(d, i, n, depth)
		if err != nil {
			return nil, errs.At(err, m.Key)
		} else if omit {
			continue
		}
		obj.Set(m.Key, n)
	}
	return obj, nil
}

// omit reports whether the member at index i of d, whose value is n, should
// be left out of its containing object.
func (p *Processor) omit(d *Descriptor, i int, n tree.Node, depth int) (bool, error) {
	m := d.Members[i]
	switch {
	case m.Always:
		return false, nil
	case (p.cfg.IgnoreNulls || m.OmitNull) && tree.IsNull(n):
		return true, nil
	case (p.cfg.IgnoreEmptyObjects || m.OmitEmpty) && isEmptyContainer(n):
		return true, nil
	case p.cfg.IgnoreDefaults || m.OmitDefault:
		def, err := p.defaultNode(d, i, depth)
		if err != nil {
			return false, err
		}
		return def != nil && tree.Equal(n, def), nil
	}
	return false, nil
}

// isEmptyContainer reports whether n is an object or array with no elements.
func isEmptyContainer(n tree.Node) bool {
	switch t := n.(type) {
	case *tree.Object:
		return t.Len() == 0
	case *tree.Array:
		return t.Len() == 0
	}
	return false
}

type defaultKey struct {
	t reflect.Type
	i int
}

type defaultEntry struct{ n tree.Node }

// defaultNode returns the tree form of the default value of the member at
// index i of d, or nil if it has none. The result must not be modified.
func (p *Processor) defaultNode(d *Descriptor, i int, depth int) (tree.Node, error) {
	key := defaultKey{t: d.Type, i: i}
	if e, ok := p.defaults.Load(key); ok {
		return e.(defaultEntry).n, nil
	}
	n, err := p.computeDefault(d, i, depth)
	if err != nil {
		return nil, err
	}
	e, _ := p.defaults.LoadOrStore(key, defaultEntry{n: n})
	return e.(defaultEntry).n, nil
}

func (p *Processor) computeDefault(d *Descriptor, i int, depth int) (tree.Node, error) {
	m := d.Members[i]
	if m.HasDefault {
		v, err := p.decode(tree.String(m.Default), m.Type, depth+1)
		if err == nil {
			return p.encode(v, depth+1)
		}
		p.log.Warn().Err(err).Stringer("type", d.Type).Str("member", m.Name).
			Str("literal", m.Default).Msg("invalid default literal; using the zero value")
	}

	// Use the value of the member in a new instance of the struct.
	fresh, err := p.inst.New(d.Type)
	if err != nil {
		p.log.Warn().Err(err).Stringer("type", d.Type).Msg("cannot instantiate; defaults will not be omitted")
		return nil, nil
	}
	fv, err := fresh.FieldByIndexErr(m.Index)
	if err != nil {
		fv = reflect.Zero(m.Type)
	}
	return p.encode(fv, depth+1)
}
