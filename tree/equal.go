// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Equal reports whether a and b are structurally equal. Objects are equal if
// they have the same keys in the same order, with equal values. Arrays are
// equal if they have equal elements in the same order. A nil node is equal to
// Null.
func Equal(a, b Node) bool {
	if a == nil {
		a = Null()
	}
	if b == nil {
		b = Null()
	}
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		if x == y {
			return true
		}
		xk, yk := x.m.Keys(), y.m.Keys()
		for i, key := range xk {
			if yk[i] != key {
				return false
			}
			xv, _ := x.Get(key)
			yv, _ := y.Get(key)
			if !Equal(xv, yv) {
				return false
			}
		}
		return true

	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.elts) != len(y.elts) {
			return false
		}
		for i, e := range x.elts {
			if !Equal(e, y.elts[i]) {
				return false
			}
		}
		return true

	case Primitive:
		y, ok := b.(Primitive)
		return ok && x.Equal(y)
	}
	return false
}

// Hash returns a structural hash of n, consistent with Equal: if Equal(a, b)
// then Hash(a) == Hash(b).
func Hash(n Node) uint64 {
	d := xxhash.New()
	hashNode(d, n)
	return d.Sum64()
}

// Hash returns a structural hash of p, consistent with Equal.
func (p Primitive) Hash() uint64 { return Hash(p) }

// Type markers for the hash stream.
const (
	hObject = 0xf0 + iota
	hArray
	hEnd
)

func hashNode(d *xxhash.Digest, n Node) {
	var buf [9]byte
	switch t := n.(type) {
	case *Object:
		d.Write([]byte{hObject})
		for key, v := range t.Entries() {
			hashString(d, key)
			hashNode(d, v)
		}
		d.Write([]byte{hEnd})

	case *Array:
		d.Write([]byte{hArray})
		for _, e := range t.elts {
			hashNode(d, e)
		}
		d.Write([]byte{hEnd})

	case Primitive:
		buf[0] = byte(t.kind)
		switch t.kind {
		case KindNull:
			d.Write(buf[:1])
		case KindBigInteger:
			d.Write(buf[:1])
			hashString(d, t.big.String())
		case KindBigDecimal:
			d.Write(buf[:1])
			hashString(d, t.dec.String())
		case KindString:
			d.Write(buf[:1])
			hashString(d, t.s)
		case KindFloat32, KindFloat64:
			f := t.f
			if f == 0 {
				f = 0 // fold -0 into +0
			} else if math.IsNaN(f) {
				f = math.NaN()
			}
			binary.BigEndian.PutUint64(buf[1:], math.Float64bits(f))
			d.Write(buf[:])
		default:
			binary.BigEndian.PutUint64(buf[1:], uint64(t.i))
			d.Write(buf[:])
		}

	case nil:
		d.Write([]byte{byte(KindNull)})
	}
}

func hashString(d *xxhash.Digest, s string) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
	d.Write(buf[:])
	d.WriteString(s)
}
