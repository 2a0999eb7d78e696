// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package json implements a codec between JSON text and trees.
//
// Parsing preserves the order of object members. Integers are represented by
// the narrowest of Int32, Int64, and BigInteger that holds them; other numbers
// are Float64 when that is exact, and BigDecimal otherwise.
//
// When comments are allowed, the input is treated as JWCC ("JSON with commas
// and comments"): line and block comments and trailing commas are accepted
// and discarded.
package json

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/creachadair/jbind/tree"
	"github.com/tailscale/hujson"
)

// DefaultMaxDepth is the nesting limit used by a Codec with MaxDepth zero.
const DefaultMaxDepth = 512

// Codec parses and serializes JSON. A zero Codec is ready for use, and
// produces compact output.
type Codec struct {
	// AllowComments enables comments and trailing commas in the input.
	AllowComments bool

	// AllowDuplicateKeys permits an object to repeat a key, in which case the
	// last value wins. Otherwise a duplicate key is a syntax error.
	AllowDuplicateKeys bool

	// MaxDepth bounds the nesting of objects and arrays in the input.
	MaxDepth int

	// Pretty enables indented output with each member and element on its own
	// line, indented by Indent spaces per level (default 2). If Indent is
	// negative, output is on a single line with spaces after separators.
	Pretty bool
	Indent int

	// CRLF uses "\r\n" line breaks in pretty output.
	CRLF bool

	// ASCII escapes all non-ASCII characters in strings.
	ASCII bool
}

// Parse parses a single JSON value from data. In case of a syntax error, the
// returned error has type [*SyntaxError].
func (c Codec) Parse(data []byte) (tree.Node, error) {
	if c.AllowComments {
		std, err := hujson.Standardize(bytes.Clone(data))
		if err != nil {
			return nil, fmt.Errorf("parse JWCC: %w", err)
		}
		data = std
	}
	p := &parser{
		s:        NewScanner(data),
		maxDepth: c.MaxDepth,
		dupKeys:  c.AllowDuplicateKeys,
	}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}
	return p.parse()
}

// Serialize renders n as JSON text.
func (c Codec) Serialize(n tree.Node) ([]byte, error) {
	f := &formatter{ascii: c.ASCII, colon: ":", comma: ","}
	if c.Pretty {
		f.colon, f.empty = ": ", " "
		if c.Indent < 0 {
			f.comma = ", "
		} else {
			f.newline = "\n"
			if c.CRLF {
				f.newline = "\r\n"
			}
			f.indent = strings.Repeat(" ", cmp.Or(c.Indent, 2))
		}
	}
	if err := f.node(n, 0); err != nil {
		return nil, err
	}
	if f.newline != "" {
		f.out = append(f.out, f.newline...)
	}
	return f.out, nil
}

// SyntaxError is the concrete type of errors reported by the parser.
type SyntaxError struct {
	Location LineCol
	Offset   int
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// IsSyntaxError reports whether err is or wraps a *SyntaxError.
func IsSyntaxError(err error) bool {
	var s *SyntaxError
	return errors.As(err, &s)
}
