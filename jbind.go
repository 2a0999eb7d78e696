// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package jbind converts Go values to and from structured text formats by way
// of a format-agnostic tree.
//
// Package tree defines the tree, package bind converts between trees and Go
// values, and the packages under codec convert between trees and text. This
// package combines them for the common case:
//
//	data, err := jbind.Marshal("yaml", cfg, nil)
//	...
//	var cfg Config
//	err := jbind.Unmarshal("toml", data, &cfg, nil)
//
// # Formats
//
// The format names understood by Lookup are:
//
//	json              JSON (RFC 8259)
//	jsonc, jwcc       JSON with comments and trailing commas
//	yaml, yml         YAML
//	toml              TOML
//	properties, ini   properties and INI files
//	csv               comma-separated values
//
// Names are not case sensitive.
package jbind

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/creachadair/jbind/bind"
	"github.com/creachadair/jbind/codec"
	"github.com/creachadair/jbind/codec/csv"
	"github.com/creachadair/jbind/codec/json"
	"github.com/creachadair/jbind/codec/properties"
	"github.com/creachadair/jbind/codec/toml"
	"github.com/creachadair/jbind/codec/yaml"
	"github.com/creachadair/jbind/tree"
)

// ErrUnknownFormat is reported by Lookup for an unrecognized format name.
var ErrUnknownFormat = errors.New("unknown format")

var formats = map[string]codec.Codec{
	"json":       json.Codec{},
	"jsonc":      json.Codec{AllowComments: true},
	"jwcc":       json.Codec{AllowComments: true},
	"yaml":       yaml.Codec{},
	"yml":        yaml.Codec{},
	"toml":       toml.Codec{},
	"properties": properties.Codec{},
	"ini":        properties.Codec{},
	"csv":        csv.Codec{},
}

// Lookup returns a codec with default settings for the named format.
func Lookup(format string) (codec.Codec, error) {
	c, ok := formats[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
	return c, nil
}

// Formats returns the names understood by Lookup, in sorted order.
func Formats() []string {
	out := make([]string, 0, len(formats))
	for name := range formats {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// FormatOf returns the format name corresponding to the extension of path,
// and reports whether there is one.
func FormatOf(path string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "hujson":
		return "jwcc", true
	case "props":
		return "properties", true
	case "":
		return "", false
	}
	_, ok := formats[ext]
	if !ok {
		return "", false
	}
	return ext, true
}

// Options control Marshal and Unmarshal. A nil *Options is ready for use and
// provides default values.
type Options struct {
	// The processor used to bind values. If nil, bind.Default is used.
	Processor *bind.Processor

	// The codec used for the text. If nil, the codec from Lookup is used.
	Codec codec.Codec
}

func (o *Options) resolve(format string) (*bind.Processor, codec.Codec, error) {
	var p *bind.Processor
	var c codec.Codec
	if o != nil {
		p, c = o.Processor, o.Codec
	}
	if p == nil {
		p = bind.Default
	}
	if c == nil {
		var err error
		c, err = Lookup(format)
		if err != nil {
			return nil, nil, err
		}
	}
	return p, c, nil
}

// Marshal converts v to a tree and renders it in the named format.
func Marshal(format string, v any, opts *Options) ([]byte, error) {
	p, c, err := opts.resolve(format)
	if err != nil {
		return nil, err
	}
	n, err := p.ToTree(v)
	if err != nil {
		return nil, err
	}
	return c.Serialize(n)
}

// Unmarshal parses data in the named format, and stores the value it
// describes in the value pointed to by ptr.
func Unmarshal(format string, data []byte, ptr any, opts *Options) error {
	p, c, err := opts.resolve(format)
	if err != nil {
		return err
	}
	n, err := c.Parse(data)
	if err != nil {
		return err
	}
	return p.Decode(n, ptr)
}

// Convert parses data in one format and renders the resulting tree in
// another, using the codecs from Lookup.
func Convert(from, to string, data []byte) ([]byte, error) {
	src, err := Lookup(from)
	if err != nil {
		return nil, err
	}
	dst, err := Lookup(to)
	if err != nil {
		return nil, err
	}
	n, err := src.Parse(data)
	if err != nil {
		return nil, err
	}
	return dst.Serialize(n)
}

// Parse parses data in the named format using the codec from Lookup.
func Parse(format string, data []byte) (tree.Node, error) {
	c, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	return c.Parse(data)
}
