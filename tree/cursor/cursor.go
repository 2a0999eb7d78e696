// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the structure of a tree.Node.
package cursor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
)

// Path traverses a sequential path into the structure of n where path elements
// are as documented for the Cursor.Down method.  This is a convenience wrapper
// for creating a cursor, applying path, and retrieving its value.
func Path[T tree.Node](n tree.Node, path ...any) (T, error) {
	c := New(n).Down(path...)
	var result T
	if err := c.Err(); err != nil {
		return result, err
	}
	v, ok := c.Value().(T)
	if !ok {
		return result, errs.TypeMismatch("got %s, want %T", tree.Describe(c.Value()), result)
	}
	return v, nil
}

// A Cursor is a pointer that navigates into the structure of a tree.Node.
type Cursor struct {
	org tree.Node
	stk []tree.Node
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin tree.Node) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin node of c.
func (c *Cursor) Origin() tree.Node { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current node under the cursor.
func (c *Cursor) Value() tree.Node {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of nodes from the origin to the current
// location in c.
func (c *Cursor) Path() []tree.Node {
	return append([]tree.Node{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current node, where path elements are either strings (denoting object keys),
// integers (denoting offsets into arrays), or functions (see below).  If the
// path is valid, the node reached is returned. If the path cannot be
// completely consumed, traversal stops and an error is recorded. Use Err to
// recover the error.
//
// If a path element is a string, the corresponding node must be an object,
// and the string selects the value of the member with that key.
//
// If a path element is an integer, the corresponding node must be an array or
// object, and the integer resolves to an index in the array or to the value
// of the member at that offset in the object. Negative indices count backward
// from the end (-1 is last, -2 second last).  An error is reported if the
// index is out of bounds.
//
// If a path element is a function, the function is executed and its result
// becomes the next node in the sequence. The function must have a signature
//
//	func(tree.Node) (tree.Node, error)
//
// If the function reports an error, traversal stops and the error is recorded.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			o, ok := cur.(*tree.Object)
			if !ok {
				return c.setError(errs.TypeMismatch("cannot traverse %s with %q", tree.Describe(cur), t))
			}
			v, ok := o.Get(t)
			if !ok {
				return c.setError(fmt.Errorf("key %q not found", t))
			}
			cur = c.push(v)

		case int:
			switch e := cur.(type) {
			case *tree.Array:
				i, ok := fixArrayBound(e.Len(), t)
				if !ok {
					return c.setError(errs.IndexOutOfRange(t, e.Len()))
				}
				v, _ := e.Get(i)
				cur = c.push(v)
			case *tree.Object:
				i, ok := fixArrayBound(e.Len(), t)
				if !ok {
					return c.setError(errs.IndexOutOfRange(t, e.Len()))
				}
				v, _ := e.Get(e.Keys()[i])
				cur = c.push(v)
			default:
				return c.setError(errs.TypeMismatch("cannot traverse %s with %v", tree.Describe(cur), t))
			}

		case func(tree.Node) (tree.Node, error):
			next, err := t(cur)
			if err != nil {
				return c.setError(err)
			}
			cur = c.push(next)

		default:
			return c.setError(fmt.Errorf("invalid path element %T", elt))
		}
	}
	return c
}

func (c *Cursor) push(v tree.Node) tree.Node { c.stk = append(c.stk, v); return v }

func (c *Cursor) setError(err error) *Cursor {
	c.err = err
	return c
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

// ParsePath parses a textual path such as "servers[0].name" into a sequence
// of path elements suitable for Down. Keys are separated by dots, and a
// bracketed integer selects an index. A key containing dots or brackets may
// be quoted: `a."b.c"[2]`.
func ParsePath(s string) ([]any, error) {
	var out []any
	for s != "" {
		switch {
		case s[0] == '.':
			s = s[1:]
			if s == "" || s[0] == '.' {
				return nil, fmt.Errorf("empty key in path")
			}

		case s[0] == '[':
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return nil, fmt.Errorf("unclosed index in path")
			}
			i, err := strconv.Atoi(strings.TrimSpace(s[1:end]))
			if err != nil {
				return nil, fmt.Errorf("invalid index %q: %w", s[1:end], err)
			}
			out = append(out, i)
			s = s[end+1:]

		case s[0] == '"':
			key, err := strconv.QuotedPrefix(s)
			if err != nil {
				return nil, fmt.Errorf("invalid quoted key: %w", err)
			}
			s = s[len(key):]
			key, _ = strconv.Unquote(key)
			out = append(out, key)

		default:
			end := strings.IndexAny(s, ".[")
			if end < 0 {
				end = len(s)
			}
			out = append(out, s[:end])
			s = s[end:]
		}
	}
	return out, nil
}
