// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tree

// Kind identifies the representation stored by a Primitive.
type Kind byte

// Constants defining the valid Kind values.
const (
	KindNull       Kind = iota // the null value; carries no payload
	KindBool                   // true or false
	KindByte                   // signed 8-bit integer
	KindShort                  // signed 16-bit integer
	KindInt32                  // signed 32-bit integer
	KindInt64                  // signed 64-bit integer
	KindBigInteger             // arbitrary-precision integer
	KindFloat32                // single-precision float
	KindFloat64                // double-precision float
	KindBigDecimal             // arbitrary-precision decimal
	KindChar                   // a single Unicode code point
	KindString                 // a string of Unicode text
)

var kindStr = [...]string{
	KindNull:       "Null",
	KindBool:       "Bool",
	KindByte:       "Byte",
	KindShort:      "Short",
	KindInt32:      "Int32",
	KindInt64:      "Int64",
	KindBigInteger: "BigInteger",
	KindFloat32:    "Float32",
	KindFloat64:    "Float64",
	KindBigDecimal: "BigDecimal",
	KindChar:       "Char",
	KindString:     "String",
}

func (k Kind) String() string {
	if int(k) < len(kindStr) {
		return kindStr[k]
	}
	return "Kind(?)"
}

// IsInteger reports whether k is one of the integer kinds.
func (k Kind) IsInteger() bool { return k >= KindByte && k <= KindBigInteger }

// IsFloat reports whether k is one of the floating-point kinds.
func (k Kind) IsFloat() bool { return k == KindFloat32 || k == KindFloat64 }

// IsNumber reports whether k is an integer, floating-point, or decimal kind.
func (k Kind) IsNumber() bool { return k >= KindByte && k <= KindBigDecimal }
