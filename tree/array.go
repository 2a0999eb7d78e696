// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"iter"
	"slices"
	"strings"

	"github.com/creachadair/jbind/errs"
)

// An Array is an ordered sequence of nodes. Elements may be duplicated and
// need not share a kind.
type Array struct {
	link
	elts []Node
}

func (*Array) node() {}

// NewArray returns a new array containing the given elements, in order.
func NewArray(elts ...Node) *Array {
	a := &Array{elts: make([]Node, 0, len(elts))}
	return a.AddAll(elts...)
}

// Len reports the number of elements in a.
func (a *Array) Len() int { return len(a.elts) }

func (a *Array) check(i, n int) error {
	if i < 0 || i >= n {
		return errs.IndexOutOfRange(i, len(a.elts))
	}
	return nil
}

// Get returns the element at index i. The result is a reference into a, not
// a copy. If i is out of range, Get reports an error of kind IndexOutOfRange.
func (a *Array) Get(i int) (Node, error) {
	if err := a.check(i, len(a.elts)); err != nil {
		return nil, err
	}
	return a.elts[i], nil
}

// Set replaces the element at index i with n.
func (a *Array) Set(i int, n Node) error {
	if err := a.check(i, len(a.elts)); err != nil {
		return err
	}
	detach(a.elts[i])
	a.elts[i] = adopt(a, n)
	return nil
}

// Add appends n to the end of a, and returns a to permit chaining.
func (a *Array) Add(n Node) *Array {
	a.elts = append(a.elts, adopt(a, n))
	return a
}

// AddAt inserts n at index i, shifting the element at i and all following
// elements one position later. Index i may equal Len, which appends.
func (a *Array) AddAt(i int, n Node) error {
	if err := a.check(i, len(a.elts)+1); err != nil {
		return err
	}
	a.elts = slices.Insert(a.elts, i, adopt(a, n))
	return nil
}

// AddAll appends each of ns to the end of a, in order, and returns a.
func (a *Array) AddAll(ns ...Node) *Array {
	for _, n := range ns {
		a.Add(n)
	}
	return a
}

// Remove removes the element at index i, shifting all following elements one
// position earlier. The removed element is detached and may be reused.
func (a *Array) Remove(i int) error {
	if err := a.check(i, len(a.elts)); err != nil {
		return err
	}
	detach(a.elts[i])
	a.elts = slices.Delete(a.elts, i, i+1)
	return nil
}

// Values returns a sequence of the index and value of each element of a.
// The sequence may be iterated more than once.
func (a *Array) Values() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		for i := 0; i < len(a.elts); i++ {
			if !yield(i, a.elts[i]) {
				return
			}
		}
	}
}

// Clone returns a detached deep copy of a.
func (a *Array) Clone() *Array {
	c := &Array{elts: make([]Node, 0, len(a.elts))}
	for _, e := range a.elts {
		c.Add(Clone(e))
	}
	return c
}

// String renders a as compact JSON-like text.
func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range a.elts {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
