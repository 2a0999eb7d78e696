// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package properties implements a codec between properties files and trees.
//
// A properties file is a list of "key = value" lines. Dotted keys denote
// nested objects, so that "server.port = 80" corresponds to the JSON
// {"server": {"port": "80"}}. An object whose keys are exactly the indexes
// 1 through n is an array. Section headers are also accepted, and prefix the
// keys that follow them, so that "[server]" followed by "port = 80" is
// equivalent to the example above.
//
// All parsed values are strings. When serializing, null values are written
// as empty strings, and empty objects and arrays are omitted.
package properties

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
	"gopkg.in/ini.v1"
)

// Codec parses and serializes properties files. A zero Codec is ready for
// use.
type Codec struct {
	// Separator joins the segments of a dotted key (default ".").
	Separator string
}

func (c Codec) sep() string {
	if c.Separator == "" {
		return "."
	}
	return c.Separator
}

// Values may contain comment markers.
var loadOptions = ini.LoadOptions{IgnoreInlineComment: true}

// Parse parses a properties file. The result is always an object.
func (c Codec) Parse(data []byte) (tree.Node, error) {
	cfg, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	root := tree.NewObject()
	for _, sec := range cfg.Sections() {
		var prefix []string
		if name := sec.Name(); name != ini.DefaultSection {
			prefix = strings.Split(name, c.sep())
		}
		for _, key := range sec.Keys() {
			path := append(slices.Clip(prefix), strings.Split(key.Name(), c.sep())...)
			if err := insert(root, path, key.Value()); err != nil {
				return nil, fmt.Errorf("parse properties: key %q: %w", strings.Join(path, c.sep()), err)
			}
		}
	}
	for key, v := range root.Entries() {
		if a := indexArrays(v); a != v {
			root.Set(key, a)
		}
	}
	return root, nil
}

// insert stores value in o at the given key path, creating objects as needed.
func insert(o *tree.Object, path []string, value string) error {
	for _, seg := range path[:len(path)-1] {
		next, ok := o.Get(seg)
		if !ok {
			child := tree.NewObject()
			o.Set(seg, child)
			o = child
			continue
		}
		child, err := tree.AsObject(next)
		if err != nil {
			return errs.TypeMismatch("%q has a value and also nested keys", seg)
		}
		o = child
	}
	last := path[len(path)-1]
	if old, ok := o.Get(last); ok && tree.IsObject(old) {
		return errs.TypeMismatch("%q has a value and also nested keys", last)
	}
	o.Set(last, tree.String(value))
	return nil
}

// indexArrays replaces n and each object within it whose keys are the
// indexes 1..n with an array of its values in index order.
func indexArrays(n tree.Node) tree.Node {
	o, ok := n.(*tree.Object)
	if !ok {
		return n
	}
	for key, v := range o.Entries() {
		if a := indexArrays(v); a != v {
			o.Set(key, a)
		}
	}
	if o.Len() == 0 {
		return o
	}
	elts := make([]tree.Node, o.Len())
	for key, v := range o.Entries() {
		i, err := strconv.Atoi(key)
		if err != nil || i < 1 || i > len(elts) || strconv.Itoa(i) != key {
			return o
		}
		elts[i-1] = v
	}
	// Remove the values so they are not copied on insertion.
	for _, key := range o.Keys() {
		o.Remove(key)
	}
	return tree.NewArray(elts...)
}

// Serialize renders n, which must be an object, as a properties file.
func (c Codec) Serialize(n tree.Node) ([]byte, error) {
	o, err := tree.AsObject(n)
	if err != nil {
		return nil, fmt.Errorf("serialize properties: document must be an object: %w", err)
	}
	cfg := ini.Empty(loadOptions)
	sec := cfg.Section(ini.DefaultSection)
	var werr error
	flatten(o, nil, c.sep(), func(key, value string) {
		if werr == nil {
			_, werr = sec.NewKey(key, value)
		}
	})
	if werr != nil {
		return nil, fmt.Errorf("serialize properties: %w", werr)
	}
	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize properties: %w", err)
	}
	return buf.Bytes(), nil
}

// flatten calls emit for each primitive in n with its dotted key path.
func flatten(n tree.Node, path []string, sep string, emit func(key, value string)) {
	switch t := n.(type) {
	case *tree.Object:
		for key, v := range t.Entries() {
			flatten(v, append(slices.Clip(path), key), sep, emit)
		}
	case *tree.Array:
		for i, v := range t.Values() {
			flatten(v, append(slices.Clip(path), strconv.Itoa(i+1)), sep, emit)
		}
	case tree.Primitive:
		s, _ := t.AsString() // null is empty
		emit(strings.Join(path, sep), s)
	}
}
