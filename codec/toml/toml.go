// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package toml implements a codec between TOML text and trees.
//
// Parsing preserves the document order of keys. Dates and times are
// represented as strings in their TOML syntax.
//
// The encoder writes the keys of each table in lexicographic order, with
// plain values before sub-tables. Because TOML has no null value, null
// members of an object are omitted, and a null array element is an error.
// A BigInteger outside the 64-bit range is written as a string.
package toml

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/creachadair/jbind/codec"
	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
	"github.com/creachadair/mds/mapset"
)

// Codec parses and serializes TOML. A zero Codec is ready for use.
type Codec struct {
	// Indent is the number of spaces by which the keys of nested tables are
	// indented in the output.
	Indent int
}

// Parse parses a TOML document. The result is always an object.
func (Codec) Parse(data []byte) (tree.Node, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	return fromTOML(raw, keyOrder(md.Keys()), nil), nil
}

// keyOrder maps each table key to the names of its members in the order they
// first appear in the document.
func keyOrder(keys []toml.Key) map[string][]string {
	out := make(map[string][]string)
	seen := mapset.New[string]()
	for _, key := range keys {
		for i := range key {
			full := key[:i+1].String()
			if seen.Has(full) {
				continue
			}
			seen.Add(full)
			parent := key[:i].String()
			out[parent] = append(out[parent], key[i])
		}
	}
	return out
}

func fromTOML(v any, order map[string][]string, prefix toml.Key) tree.Node {
	switch t := v.(type) {
	case map[string]any:
		o := tree.NewObject()
		for _, key := range tableKeys(t, order[prefix.String()]) {
			o.Set(key, fromTOML(t[key], order, append(slices.Clip(prefix), key)))
		}
		return o

	case []map[string]any:
		a := tree.NewArray()
		for _, e := range t {
			a.Add(fromTOML(e, order, prefix))
		}
		return a

	case []any:
		a := tree.NewArray()
		for _, e := range t {
			a.Add(fromTOML(e, order, prefix))
		}
		return a

	case int64:
		if t >= math.MinInt32 && t <= math.MaxInt32 {
			return tree.Int32(int32(t))
		}
		return tree.Int64(t)

	case float64:
		return tree.Float64(t)

	case bool:
		return tree.Bool(t)

	case string:
		return tree.String(t)

	case time.Time:
		return tree.String(formatTime(t))
	}
	return tree.String(fmt.Sprint(v))
}

// tableKeys returns the keys of m, ordered first as they appear in order and
// then lexicographically.
func tableKeys(m map[string]any, order []string) []string {
	keys := make([]string, 0, len(m))
	for _, key := range order {
		if _, ok := m[key]; ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == len(m) {
		return keys
	}
	var rest []string
	for key := range m {
		if !slices.Contains(keys, key) {
			rest = append(rest, key)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

// formatTime renders t in the TOML syntax it was parsed from. The decoder
// marks local dates and times with distinguished locations.
func formatTime(t time.Time) string {
	switch t.Location().String() {
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	case "date-local":
		return t.Format(time.DateOnly)
	case "time-local":
		return t.Format("15:04:05.999999999")
	}
	return t.Format(time.RFC3339Nano)
}

// Serialize renders n, which must be an object, as a TOML document.
func (c Codec) Serialize(n tree.Node) ([]byte, error) {
	o, err := tree.AsObject(n)
	if err != nil {
		return nil, fmt.Errorf("serialize TOML: document must be an object: %w", err)
	}
	doc, err := toTOML(o)
	if err != nil {
		return nil, fmt.Errorf("serialize TOML: %w", err)
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = strings.Repeat(" ", max(c.Indent, 0))
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("serialize TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// number is a numeric literal written verbatim by the encoder.
type number string

func (n number) MarshalTOML() ([]byte, error) { return []byte(n), nil }

func toTOML(n tree.Node) (any, error) {
	switch t := n.(type) {
	case *tree.Object:
		m := make(map[string]any, t.Len())
		for key, v := range t.Entries() {
			if tree.IsNull(v) {
				continue
			}
			tv, err := toTOML(v)
			if err != nil {
				return nil, errs.At(err, key)
			}
			m[key] = tv
		}
		return m, nil

	case *tree.Array:
		s := make([]any, 0, t.Len())
		for i, v := range t.Values() {
			if tree.IsNull(v) {
				return nil, errs.At(errs.TypeMismatch("TOML arrays cannot contain null"), errs.Index(i))
			}
			tv, err := toTOML(v)
			if err != nil {
				return nil, errs.At(err, errs.Index(i))
			}
			s = append(s, tv)
		}
		return s, nil

	case tree.Primitive:
		return primitive(t)
	}
	return nil, errs.TypeMismatch("TOML has no null value")
}

func primitive(p tree.Primitive) (any, error) {
	switch k := p.Kind(); {
	case k == tree.KindNull:
		return nil, errs.TypeMismatch("TOML has no null value")
	case k == tree.KindBool:
		return p.AsBool()
	case k == tree.KindBigInteger:
		if v, err := p.AsInt64(); err == nil {
			return v, nil
		}
		return p.AsString()
	case k.IsInteger():
		return p.AsInt64()
	case k.IsFloat():
		return p.AsFloat64()
	case k == tree.KindBigDecimal:
		s, _ := codec.FormatNumber(p)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return number(s), nil
	}
	return p.AsString()
}
