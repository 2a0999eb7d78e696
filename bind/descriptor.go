// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/mds/mapset"
	"github.com/iancoleman/strcase"
)

// Naming selects how the Go name of a struct field is transformed into the
// external key of a member that has no explicit name in its tag.
type Naming int

// Constants defining the valid Naming values.
const (
	NamingIdentity   Naming = iota // use the Go field name unchanged
	NamingLowerCamel               // FieldName → fieldName
	NamingSnake                    // FieldName → field_name
	NamingKebab                    // FieldName → field-name
)

func (n Naming) apply(name string) string {
	switch n {
	case NamingLowerCamel:
		return strcase.ToLowerCamel(name)
	case NamingSnake:
		return strcase.ToSnake(name)
	case NamingKebab:
		return strcase.ToKebab(name)
	}
	return name
}

// A Member describes a single bindable field of a struct type.
type Member struct {
	Name  string       // the Go field name
	Key   string       // the external key
	Index []int        // the field index path, as for reflect.Value.FieldByIndex
	Type  reflect.Type // the declared type of the field

	// Default is the literal given by the "default" tag, if HasDefault.
	Default    string
	HasDefault bool

	// Per-member inclusion options from the "bind" tag. These are combined
	// with the processor configuration when serializing.
	OmitNull    bool // omitnull: skip when the value is null
	OmitDefault bool // omitdefault: skip when the value equals its default
	OmitEmpty   bool // omitempty: skip when the value is an empty object or array
	Always      bool // always: never skip, regardless of configuration
}

// A Descriptor describes the bindable members of a struct type.
// Descriptors are immutable and safe for concurrent use.
type Descriptor struct {
	Type    reflect.Type
	Members []*Member // in declaration order

	byKey map[string]*Member
}

// Lookup returns the member with the given external key, if any.
func (d *Descriptor) Lookup(key string) (*Member, bool) {
	m, ok := d.byKey[key]
	return m, ok
}

type descKey struct {
	t      reflect.Type
	naming Naming
}

// descriptors caches a *Descriptor for each descKey.
var descriptors sync.Map

// Describe returns the descriptor for struct type t under the given naming
// policy. It reports an error of kind TypeMismatch if t is not a struct.
//
// Descriptors are computed on first use and cached for the lifetime of the
// process. Concurrent first calls for the same type may each compute a
// descriptor, but all callers observe the same cached value.
func Describe(t reflect.Type, naming Naming) (*Descriptor, error) {
	return describe(&descriptors, t, naming, nil)
}

// describe returns the descriptor for t from cache, building it if needed.
func describe(cache *sync.Map, t reflect.Type, naming Naming, whole func(reflect.Type) bool) (*Descriptor, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errs.TypeMismatch("cannot describe non-struct type %v", t)
	}
	key := descKey{t: t, naming: naming}
	if d, ok := cache.Load(key); ok {
		return d.(*Descriptor), nil
	}
	d, _ := cache.LoadOrStore(key, buildDescriptor(t, naming, whole))
	return d.(*Descriptor), nil
}

// buildDescriptor enumerates the exported fields of t, including the fields
// promoted from embedded structs. A field at a shallower depth hides a field
// with the same key at a deeper depth; among fields at the same depth, the
// first declared wins.
//
// An embedded struct for which whole reports true is not promoted, and is
// instead a single member named by its type.
func buildDescriptor(t reflect.Type, naming Naming, whole func(reflect.Type) bool) *Descriptor {
	type level struct {
		t     reflect.Type
		index []int
	}

	var members []*Member
	seen := mapset.New[string]()
	visited := mapset.New[reflect.Type]()
	next := []level{{t: t}}
	for len(next) != 0 {
		cur := next
		next = nil
		for _, lv := range cur {
			if visited.Has(lv.t) {
				continue
			}
			visited.Add(lv.t)

			for i := 0; i < lv.t.NumField(); i++ {
				f := lv.t.Field(i)
				tag := f.Tag.Get("bind")
				if tag == "-" {
					continue
				}
				name, opts, _ := strings.Cut(tag, ",")
				index := append(slices.Clip(lv.index), i)

				if f.Anonymous {
					ft := f.Type
					if ft.Kind() == reflect.Pointer {
						if !f.IsExported() {
							continue // cannot allocate through an unexported pointer
						}
						ft = ft.Elem()
					}
					promote := whole == nil || !(whole(f.Type) || whole(ft))
					if ft.Kind() == reflect.Struct && name == "" && promote {
						next = append(next, level{t: ft, index: index})
						continue
					}
				}
				if !f.IsExported() {
					continue
				}

				m := &Member{Name: f.Name, Key: name, Index: index, Type: f.Type}
				if m.Key == "" {
					m.Key = naming.apply(f.Name)
				}
				if seen.Has(m.Key) {
					continue
				}
				seen.Add(m.Key)
				m.Default, m.HasDefault = f.Tag.Lookup("default")
				for opt := range strings.SplitSeq(opts, ",") {
					switch strings.TrimSpace(opt) {
					case "omitnull":
						m.OmitNull = true
					case "omitdefault":
						m.OmitDefault = true
					case "omitempty":
						m.OmitEmpty = true
					case "always":
						m.Always = true
					}
				}
				members = append(members, m)
			}
		}
	}

	slices.SortStableFunc(members, func(a, b *Member) int {
		return slices.Compare(a.Index, b.Index)
	})
	d := &Descriptor{Type: t, Members: members, byKey: make(map[string]*Member, len(members))}
	for _, m := range members {
		d.byKey[m.Key] = m
	}
	return d
}
