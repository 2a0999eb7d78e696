// Package query implements structural queries over trees.
//
// A query describes a substructure of a tree, such as an object member, array
// element, or a path through the tree. Evaluating a query against a concrete
// tree traverses the structure described by the query and returns the
// resulting node.
//
// The simplest query is for a "path", a sequence of object keys and/or array
// indices that describes a path from the root of a tree. For example, given
// the tree for the JSON value:
//
//	[{"a": 1, "b": 2}, {"c": {"d": true}, "e": false}]
//
// the query
//
//	query.Path(1, "c", "d")
//
// yields the value true.
//
// Results that collect several nodes into a new array or object hold copies
// of the selected containers, so modifying a result does not affect the input.
package query

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
)

// Eval evaluates the given query beginning from root, returning the resulting
// node or an error.
func Eval(root tree.Node, q Query) (tree.Node, error) {
	if root == nil {
		root = tree.Null()
	}
	return q.eval(root)
}

// A Query describes a traversal of a tree.
type Query interface {
	eval(tree.Node) (tree.Node, error)
}

// Path traverses a sequence of nested object keys or array indices from the
// root.  If no keys are specified, the root is returned. Each key must be a
// string, an int, or a Query.
func Path(keys ...any) Query {
	if len(keys) == 1 {
		return pathElem(keys[0])
	}
	pq := make(Seq, 0, len(keys))
	for _, key := range keys {
		q := pathElem(key)
		if sq, ok := q.(Seq); ok {
			pq = append(pq, sq...)
		} else {
			pq = append(pq, q)
		}
	}
	return pq
}

func pathElem(key any) Query {
	switch t := key.(type) {
	case string:
		return objKey(t)
	case int:
		return nthQuery(t)
	case Query:
		return t
	default:
		panic(fmt.Sprintf("invalid path element %T", key))
	}
}

func wantArray(v tree.Node) (*tree.Array, error) {
	a, ok := v.(*tree.Array)
	if !ok {
		return nil, errs.TypeMismatch("got %s, want array", tree.Describe(v))
	}
	return a, nil
}

type objKey string

func (o objKey) eval(v tree.Node) (tree.Node, error) {
	obj, ok := v.(*tree.Object)
	if !ok {
		return nil, errs.TypeMismatch("got %s, want object", tree.Describe(v))
	}
	val, ok := obj.Get(string(o))
	if !ok {
		return nil, fmt.Errorf("key %q not found", o)
	}
	return val, nil
}

type nthQuery int

func (nq nthQuery) eval(v tree.Node) (tree.Node, error) {
	arr, err := wantArray(v)
	if err != nil {
		return nil, err
	}
	idx := int(nq)
	if idx < 0 {
		idx += arr.Len()
	}
	if idx < 0 || idx >= arr.Len() {
		return nil, errs.IndexOutOfRange(int(nq), arr.Len())
	}
	return arr.Get(idx)
}

// Selection constructs an array of the elements of its input array, for which
// the specified function returns true.
type Selection func(tree.Node) bool

func (q Selection) eval(v tree.Node) (tree.Node, error) {
	a, err := wantArray(v)
	if err != nil {
		return nil, err
	}
	out := tree.NewArray()
	for _, elt := range a.Values() {
		if q(elt) {
			out.Add(elt)
		}
	}
	return out, nil
}

// Mapping constructs an array in which each value is replaced by the result of
// calling the specified function on the corresponding input value.
type Mapping func(tree.Node) tree.Node

func (q Mapping) eval(v tree.Node) (tree.Node, error) {
	a, err := wantArray(v)
	if err != nil {
		return nil, err
	}
	out := tree.NewArray()
	for _, elt := range a.Values() {
		out.Add(q(elt))
	}
	return out, nil
}

// Slice selects a slice of an array from offsets lo to hi.  The range includes
// lo but excludes hi. Negative offsets select from the end of the array.
// If hi == 0, the length of the array is used.
func Slice(lo, hi int) Query { return sliceQuery{lo, hi} }

type sliceQuery struct{ lo, hi int }

func (q sliceQuery) eval(v tree.Node) (tree.Node, error) {
	arr, err := wantArray(v)
	if err != nil {
		return nil, err
	}
	n := arr.Len()
	lox := q.lo
	if lox < 0 {
		lox += n
	}
	hix := q.hi
	if hix <= 0 {
		hix += n
	}
	if lox < 0 || lox >= n {
		return nil, errs.IndexOutOfRange(q.lo, n)
	} else if hix < 0 || hix > n {
		return nil, errs.IndexOutOfRange(q.hi, n)
	} else if lox > hix {
		return nil, fmt.Errorf("index start %d > end %d", q.lo, q.hi)
	}
	out := tree.NewArray()
	for i := lox; i < hix; i++ {
		e, _ := arr.Get(i)
		out.Add(e)
	}
	return out, nil
}

// Pick constructs an array by picking the designated offsets from an array.
// Negative offsets select from the end of the input array.
func Pick(offsets ...int) Query { return pickQuery(offsets) }

type pickQuery []int

func (q pickQuery) eval(v tree.Node) (tree.Node, error) {
	arr, err := wantArray(v)
	if err != nil {
		return nil, err
	}
	out := tree.NewArray()
	for _, off := range q {
		e, err := nthQuery(off).eval(arr)
		if err != nil {
			return nil, err
		}
		out.Add(e)
	}
	return out, nil
}

// Len returns an Int64 representing the length of the root.
//
// For an object, the length is the number of members.
// For an array, the length is the number of elements.
// For a string, the length is the number of characters.
// For null, the length is zero.
func Len() Query { return lenQuery{} }

type lenQuery struct{}

func (lenQuery) eval(v tree.Node) (tree.Node, error) {
	switch t := v.(type) {
	case *tree.Object:
		return tree.Int64(int64(t.Len())), nil
	case *tree.Array:
		return tree.Int64(int64(t.Len())), nil
	case tree.Primitive:
		switch t.Kind() {
		case tree.KindNull:
			return tree.Int64(0), nil
		case tree.KindString:
			s, _ := t.AsString()
			return tree.Int64(int64(utf8.RuneCountInString(s))), nil
		}
	}
	return nil, errs.TypeMismatch("cannot take length of %s", tree.Describe(v))
}

// Seq is a sequential composition of queries. An empty sequence selects the
// root; otherwise, each query is applied to the result selected by the
// previous query in the sequence.
type Seq []Query

func (q Seq) eval(v tree.Node) (tree.Node, error) {
	cur := v
	for _, sq := range q {
		next, err := sq.eval(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Alt is a query that selects among a sequence of alternatives.  The result of
// the first alternative that does not report an error is returned. If there
// are no alternatives, the query fails on all inputs.
type Alt []Query

func (q Alt) eval(v tree.Node) (tree.Node, error) {
	for _, alt := range q {
		if w, err := alt.eval(v); err == nil {
			return w, nil
		}
	}
	return nil, errors.New("no matching alternatives")
}

// Recur applies a query to each recursive descendant of its input and returns
// an array of the resulting values. The arguments have the same constraints as
// Path.
func Recur(keys ...any) Query { return recQuery{Path(keys...)} }

type recQuery struct{ Query }

func (q recQuery) eval(v tree.Node) (tree.Node, error) {
	out := tree.NewArray()

	stk := []tree.Node{v}
	for len(stk) != 0 {
		next := stk[len(stk)-1]
		stk = stk[:len(stk)-1]

		if r, err := q.Query.eval(next); err == nil {
			out.Add(r)
		}

		// N.B. Push in reverse order, so we visit in lexical order.
		var kids []tree.Node
		switch t := next.(type) {
		case *tree.Object:
			for _, e := range t.Entries() {
				kids = append(kids, e)
			}
		case *tree.Array:
			for _, e := range t.Values() {
				kids = append(kids, e)
			}
		}
		slices.Reverse(kids)
		stk = append(stk, kids...)
	}

	if out.Len() == 0 {
		return nil, errors.New("no matches")
	}
	return out, nil
}

// Each applies a query to each element of an array and returns an array of the
// resulting values. It fails if the input is not an array.  The arguments have
// the same constraints as Path.
func Each(keys ...any) Query { return eachQuery{Path(keys...)} }

type eachQuery struct{ Query }

func (q eachQuery) eval(v tree.Node) (tree.Node, error) {
	arr, err := wantArray(v)
	if err != nil {
		return nil, err
	}
	out := tree.NewArray()
	for i, elt := range arr.Values() {
		v, err := q.Query.eval(elt)
		if err != nil {
			return nil, errs.At(err, errs.Index(i))
		}
		out.Add(v)
	}
	return out, nil
}

// Object constructs an object with the given keys mapped to the results of
// matching the query values against its input. The keys of the result are in
// lexicographic order.
type Object map[string]Query

func (o Object) eval(v tree.Node) (tree.Node, error) {
	keys := make([]string, 0, len(o))
	for key := range o {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	out := tree.NewObject()
	for _, key := range keys {
		val, err := o[key].eval(v)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", key, err)
		}
		out.Set(key, val)
	}
	return out, nil
}

// Array constructs an array with the values produced by matching the given
// queries against its input.
type Array []Query

func (a Array) eval(v tree.Node) (tree.Node, error) {
	out := tree.NewArray()
	for i, q := range a {
		val, err := q.eval(v)
		if err != nil {
			return nil, errs.At(err, errs.Index(i))
		}
		out.Add(val)
	}
	return out, nil
}

// A String query ignores its input and returns the given string.
func String(s string) Query { return Value(tree.String(s)) }

// A Float query ignores its input and returns the given number.
func Float(n float64) Query { return Value(tree.Float64(n)) }

// An Int query ignores its input and returns the given integer.
func Int(z int64) Query { return Value(tree.Int64(z)) }

// A Bool query ignores its input and returns the given bool.
func Bool(b bool) Query { return Value(tree.Bool(b)) }

// A Null query ignores its input and returns a null value.
func Null() Query { return Value(tree.Null()) }

// A Value query ignores its input and returns a copy of the given node.
func Value(v tree.Node) Query { return constQuery{v} }

type constQuery struct{ tree.Node }

func (c constQuery) eval(_ tree.Node) (tree.Node, error) { return tree.Clone(c.Node), nil }

// A Glob query returns an array of all its inputs.
func Glob() Query { return globQuery{} }

type globQuery struct{}

func (globQuery) eval(v tree.Node) (tree.Node, error) {
	switch t := v.(type) {
	case *tree.Object:
		out := tree.NewArray()
		for _, e := range t.Entries() {
			out.Add(e)
		}
		return out, nil
	case *tree.Array:
		return t, nil
	default:
		return nil, errors.New("no matching values")
	}
}
