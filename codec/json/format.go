// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package json

import (
	"strconv"

	"github.com/creachadair/jbind/codec"
	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/internal/escape"
	"github.com/creachadair/jbind/tree"
	"go4.org/mem"
)

// A formatter renders a tree as JSON text. Separators and line breaks are
// fixed by the codec settings.
type formatter struct {
	out   []byte
	ascii bool

	colon, comma string // member and element separators
	empty        string // between the brackets of an empty container
	newline      string // line break, or "" for single-line output
	indent       string // indentation per nesting level
}

func (f *formatter) node(n tree.Node, depth int) error {
	switch t := n.(type) {
	case nil:
		f.out = append(f.out, "null"...)
	case *tree.Object:
		keys := t.Keys()
		return f.container('{', '}', len(keys), depth, func(i int) error {
			f.quote(keys[i])
			f.out = append(f.out, f.colon...)
			v, _ := t.Get(keys[i])
			return f.node(v, depth+1)
		})
	case *tree.Array:
		return f.container('[', ']', t.Len(), depth, func(i int) error {
			v, _ := t.Get(i)
			return f.node(v, depth+1)
		})
	case tree.Primitive:
		return f.primitive(t)
	default:
		return errs.TypeMismatch("unknown node type %T", n)
	}
	return nil
}

func (f *formatter) container(open, close byte, n, depth int, each func(int) error) error {
	f.out = append(f.out, open)
	if n == 0 {
		f.out = append(f.out, f.empty...)
		f.out = append(f.out, close)
		return nil
	}
	for i := range n {
		if i > 0 {
			f.out = append(f.out, f.comma...)
		}
		f.breakLine(depth + 1)
		if err := each(i); err != nil {
			return err
		}
	}
	f.breakLine(depth)
	f.out = append(f.out, close)
	return nil
}

func (f *formatter) breakLine(depth int) {
	if f.newline == "" {
		return
	}
	f.out = append(f.out, f.newline...)
	for range depth {
		f.out = append(f.out, f.indent...)
	}
}

func (f *formatter) primitive(p tree.Primitive) error {
	switch k := p.Kind(); {
	case k == tree.KindNull:
		f.out = append(f.out, "null"...)
	case k == tree.KindBool:
		b, _ := p.AsBool()
		f.out = strconv.AppendBool(f.out, b)
	case k == tree.KindString, k == tree.KindChar:
		s, _ := p.AsString()
		f.quote(s)
	case k.IsNumber():
		s, ok := codec.FormatNumber(p)
		if !ok {
			// JSON has no representation for non-finite numbers.
			s = strconv.Quote(codec.NonFinite(p))
		}
		f.out = append(f.out, s...)
	default:
		return errs.TypeMismatch("cannot format %v as JSON", k)
	}
	return nil
}

func (f *formatter) quote(s string) {
	f.out = append(f.out, '"')
	f.out = append(f.out, escape.Quote(mem.S(s), f.ascii)...)
	f.out = append(f.out, '"')
}
