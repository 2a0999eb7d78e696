// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package codec defines the interface between trees and the text formats
// that represent them, along with helpers shared by the format packages.
package codec

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
	"github.com/shopspring/decimal"
)

// A Codec converts between the text of a particular format and a tree.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Parse parses a complete document and returns its tree.
	Parse(data []byte) (tree.Node, error)

	// Serialize renders n as a complete document.
	Serialize(n tree.Node) ([]byte, error)
}

// Integer returns a primitive for the decimal integer text s, using the
// narrowest of Int32, Int64, and BigInteger that holds the value.
func Integer(s string) (tree.Primitive, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return tree.Int32(int32(v)), nil
		}
		return tree.Int64(v), nil
	}
	z, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return tree.Null(), errs.TypeMismatch("invalid integer %q", s)
	}
	return tree.BigInteger(z), nil
}

// Real returns a primitive for the decimal number text s. The result is a
// Float64 if that represents s exactly, and otherwise a BigDecimal.
func Real(s string) (tree.Primitive, error) {
	d, derr := decimal.NewFromString(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || derr != nil {
		if derr != nil {
			return tree.Null(), errs.TypeMismatch("invalid number %q", s)
		}
		return tree.BigDecimal(d), nil
	}
	if decimal.NewFromFloat(f).Equal(d) {
		return tree.Float64(f), nil
	}
	return tree.BigDecimal(d), nil
}

// FormatNumber renders the numeric primitive p as decimal text. Floating-point
// values with no fraction or exponent get a trailing ".0", so that they read
// back as floating-point. It reports false if p is not a finite number.
func FormatNumber(p tree.Primitive) (string, bool) {
	switch k := p.Kind(); {
	case k == tree.KindBigInteger:
		z, _ := p.AsBigInteger()
		return z.String(), true
	case k == tree.KindBigDecimal:
		d, _ := p.AsBigDecimal()
		return d.String(), true
	case k.IsInteger():
		v, _ := p.AsInt64()
		return strconv.FormatInt(v, 10), true
	case k.IsFloat():
		f, _ := p.AsFloat64()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return "", false
		}
		bits := 64
		if k == tree.KindFloat32 {
			bits = 32
		}
		s := strconv.FormatFloat(f, 'g', -1, bits)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s, true
	}
	return "", false
}

// NonFinite returns the conventional name for a NaN or infinite value of the
// floating-point primitive p: "NaN", "Infinity", or "-Infinity".
func NonFinite(p tree.Primitive) string {
	f, _ := p.AsFloat64()
	switch {
	case math.IsNaN(f):
		return "NaN"
	case f > 0:
		return "Infinity"
	}
	return "-Infinity"
}
