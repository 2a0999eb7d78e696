// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package csv implements a codec between comma-separated values and trees.
//
// A CSV document corresponds to an array of objects. The first record is a
// header that names the members of each object, and each following record
// gives the values of one object, as strings with surrounding spaces
// removed. When serializing, the header is the union of the keys of the
// objects in the order they first appear, and members absent from an object
// or null are written as empty fields.
package csv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
	"github.com/creachadair/mds/mapset"
)

// Codec parses and serializes CSV. A zero Codec is ready for use.
type Codec struct {
	// Comma is the field delimiter (default ',').
	Comma rune

	// CRLF uses "\r\n" line breaks in the output.
	CRLF bool
}

// Parse parses a CSV document with a header row into an array of objects.
// Empty input is an empty array.
func (c Codec) Parse(data []byte) (tree.Node, error) {
	r := csv.NewReader(bytes.NewReader(data))
	if c.Comma != 0 {
		r.Comma = c.Comma
	}
	r.TrimLeadingSpace = true

	out := tree.NewArray()
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return out, nil
	} else if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("parse CSV: %w", err)
		}
		row := tree.NewObject()
		for i, f := range rec {
			row.Set(header[i], tree.String(strings.TrimSpace(f)))
		}
		out.Add(row)
	}
	return out, nil
}

// Serialize renders n as a CSV document. The value of n must be an array of
// objects whose members are primitives, or a single such object.
func (c Codec) Serialize(n tree.Node) ([]byte, error) {
	var rows []*tree.Object
	switch t := n.(type) {
	case *tree.Object:
		rows = append(rows, t)
	case *tree.Array:
		for i, v := range t.Values() {
			o, err := tree.AsObject(v)
			if err != nil {
				return nil, fmt.Errorf("serialize CSV: %w", errs.At(err, errs.Index(i)))
			}
			rows = append(rows, o)
		}
	default:
		return nil, fmt.Errorf("serialize CSV: %w", errs.TypeMismatch("cannot write %s as CSV", tree.Describe(n)))
	}

	var header []string
	seen := mapset.New[string]()
	for _, row := range rows {
		for _, key := range row.Keys() {
			if !seen.Has(key) {
				seen.Add(key)
				header = append(header, key)
			}
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if c.Comma != 0 {
		w.Comma = c.Comma
	}
	w.UseCRLF = c.CRLF
	if len(header) != 0 {
		w.Write(header)
	}
	for i, row := range rows {
		rec := make([]string, len(header))
		for j, key := range header {
			v, ok := row.Get(key)
			if !ok {
				continue
			}
			p, err := tree.AsPrimitive(v)
			if err != nil {
				return nil, fmt.Errorf("serialize CSV: %w", errs.At(errs.At(err, key), errs.Index(i)))
			}
			rec[j], _ = p.AsString() // null is empty
		}
		w.Write(rec)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("serialize CSV: %w", err)
	}
	return buf.Bytes(), nil
}
