// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/creachadair/jbind/errs"
	"github.com/shopspring/decimal"
)

// A Primitive is a scalar leaf value. The zero Primitive is null.
//
// Primitive values are immutable: constructors copy their arguments where
// necessary, and accessors return copies.
type Primitive struct {
	kind Kind
	i    int64           // Bool (0 or 1), Byte, Short, Int32, Int64, Char
	f    float64         // Float32, Float64
	s    string          // String
	big  *big.Int        // BigInteger; never mutated after construction
	dec  decimal.Decimal // BigDecimal
}

func (Primitive) node() {}

// Null returns the null primitive.
func Null() Primitive { return Primitive{} }

// Bool returns a Bool primitive with value b.
func Bool(b bool) Primitive {
	if b {
		return Primitive{kind: KindBool, i: 1}
	}
	return Primitive{kind: KindBool}
}

// Byte returns a Byte primitive with value v.
func Byte(v int8) Primitive { return Primitive{kind: KindByte, i: int64(v)} }

// Short returns a Short primitive with value v.
func Short(v int16) Primitive { return Primitive{kind: KindShort, i: int64(v)} }

// Int32 returns an Int32 primitive with value v.
func Int32(v int32) Primitive { return Primitive{kind: KindInt32, i: int64(v)} }

// Int64 returns an Int64 primitive with value v.
func Int64(v int64) Primitive { return Primitive{kind: KindInt64, i: v} }

// BigInteger returns a BigInteger primitive with a copy of v.
// If v == nil, it returns Null.
func BigInteger(v *big.Int) Primitive {
	if v == nil {
		return Null()
	}
	return Primitive{kind: KindBigInteger, big: new(big.Int).Set(v)}
}

// Float32 returns a Float32 primitive with value v.
func Float32(v float32) Primitive { return Primitive{kind: KindFloat32, f: float64(v)} }

// Float64 returns a Float64 primitive with value v.
func Float64(v float64) Primitive { return Primitive{kind: KindFloat64, f: v} }

// BigDecimal returns a BigDecimal primitive with value v.
func BigDecimal(v decimal.Decimal) Primitive { return Primitive{kind: KindBigDecimal, dec: v} }

// Char returns a Char primitive holding the code point r.
func Char(r rune) Primitive { return Primitive{kind: KindChar, i: int64(r)} }

// String returns a String primitive with value s.
func String(s string) Primitive { return Primitive{kind: KindString, s: s} }

// From returns a primitive of the kind that most closely represents v.
//
// Signed integers map to the kind of matching width. Unsigned integers widen
// to the next larger signed kind, or to BigInteger when a 64-bit value exceeds
// math.MaxInt64. Named types with a scalar underlying kind are accepted.
// A rune is indistinguishable from an int32 and maps to Int32; use Char to
// construct a character. From reports an error of kind TypeMismatch if v
// has no primitive representation.
func From(v any) (Primitive, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Primitive:
		return t, nil
	case bool:
		return Bool(t), nil
	case int8:
		return Byte(t), nil
	case int16:
		return Short(t), nil
	case int32:
		return Int32(t), nil
	case int:
		return Int64(int64(t)), nil
	case int64:
		return Int64(t), nil
	case uint8:
		return Short(int16(t)), nil
	case uint16:
		return Int32(int32(t)), nil
	case uint32:
		return Int64(int64(t)), nil
	case uint:
		return fromUint64(uint64(t)), nil
	case uint64:
		return fromUint64(t), nil
	case uintptr:
		return fromUint64(uint64(t)), nil
	case float32:
		return Float32(t), nil
	case float64:
		return Float64(t), nil
	case *big.Int:
		return BigInteger(t), nil
	case big.Int:
		return BigInteger(&t), nil
	case decimal.Decimal:
		return BigDecimal(t), nil
	case string:
		return String(t), nil
	}

	// Handle named types by their underlying kind.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int8:
		return Byte(int8(rv.Int())), nil
	case reflect.Int16:
		return Short(int16(rv.Int())), nil
	case reflect.Int32:
		return Int32(int32(rv.Int())), nil
	case reflect.Int, reflect.Int64:
		return Int64(rv.Int()), nil
	case reflect.Uint8:
		return Short(int16(rv.Uint())), nil
	case reflect.Uint16:
		return Int32(int32(rv.Uint())), nil
	case reflect.Uint32:
		return Int64(int64(rv.Uint())), nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return fromUint64(rv.Uint()), nil
	case reflect.Float32:
		return Float32(float32(rv.Float())), nil
	case reflect.Float64:
		return Float64(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	}
	return Primitive{}, errs.TypeMismatch("no primitive representation for %T", v).WithType(rv.Type())
}

func fromUint64(u uint64) Primitive {
	if u <= math.MaxInt64 {
		return Int64(int64(u))
	}
	return BigInteger(new(big.Int).SetUint64(u))
}

// Kind reports the kind of value stored in p.
func (p Primitive) Kind() Kind { return p.kind }

// IsNull reports whether p is the null value.
func (p Primitive) IsNull() bool { return p.kind == KindNull }

// AsNull reports an error of kind TypeMismatch if p is not null.
func (p Primitive) AsNull() error {
	if p.kind != KindNull {
		return p.mismatch(KindNull)
	}
	return nil
}

func (p Primitive) mismatch(want Kind) error {
	return errs.TypeMismatch("cannot convert %s %s to %s", p.kind, p, want)
}

func (p Primitive) overflow(want Kind) error {
	return errs.NumericOverflow("value %s does not fit in %s", p, want)
}

// AsBool returns the value of p as a bool. A String is parsed with
// strconv.ParseBool. An integer is accepted if its value is 0 or 1.
func (p Primitive) AsBool() (bool, error) {
	switch {
	case p.kind == KindBool:
		return p.i != 0, nil
	case p.kind == KindString:
		b, err := strconv.ParseBool(strings.TrimSpace(p.s))
		if err != nil {
			return false, p.mismatch(KindBool)
		}
		return b, nil
	case p.kind.IsInteger():
		z, err := p.AsBigInteger()
		if err != nil {
			return false, err
		}
		if z.IsInt64() && (z.Int64() == 0 || z.Int64() == 1) {
			return z.Int64() == 1, nil
		}
	}
	return false, p.mismatch(KindBool)
}

// AsBigInteger returns the value of p as an arbitrary-precision integer.
// Floating-point and decimal values must be integral. A String must contain
// a base-10 integer literal. A Char yields its code point.
func (p Primitive) AsBigInteger() (*big.Int, error) {
	switch p.kind {
	case KindByte, KindShort, KindInt32, KindInt64, KindChar:
		return big.NewInt(p.i), nil
	case KindBigInteger:
		return new(big.Int).Set(p.big), nil
	case KindFloat32, KindFloat64:
		if math.IsInf(p.f, 0) || math.IsNaN(p.f) || p.f != math.Trunc(p.f) {
			return nil, p.mismatch(KindBigInteger)
		}
		z, _ := big.NewFloat(p.f).Int(nil)
		return z, nil
	case KindBigDecimal:
		if !p.dec.Equal(p.dec.Truncate(0)) {
			return nil, p.mismatch(KindBigInteger)
		}
		return p.dec.BigInt(), nil
	case KindString:
		z, ok := new(big.Int).SetString(strings.TrimSpace(p.s), 10)
		if !ok {
			return nil, p.mismatch(KindBigInteger)
		}
		return z, nil
	}
	return nil, p.mismatch(KindBigInteger)
}

// intRange returns the value of p as an int64 if it lies in [lo, hi].
func (p Primitive) intRange(want Kind, lo, hi int64) (int64, error) {
	var v int64
	switch p.kind {
	case KindByte, KindShort, KindInt32, KindInt64, KindChar:
		v = p.i
	default:
		z, err := p.AsBigInteger()
		if err != nil {
			return 0, p.mismatch(want)
		} else if !z.IsInt64() {
			return 0, p.overflow(want)
		}
		v = z.Int64()
	}
	if v < lo || v > hi {
		return 0, p.overflow(want)
	}
	return v, nil
}

// AsByte returns the value of p as an int8.
func (p Primitive) AsByte() (int8, error) {
	v, err := p.intRange(KindByte, math.MinInt8, math.MaxInt8)
	return int8(v), err
}

// AsShort returns the value of p as an int16.
func (p Primitive) AsShort() (int16, error) {
	v, err := p.intRange(KindShort, math.MinInt16, math.MaxInt16)
	return int16(v), err
}

// AsInt32 returns the value of p as an int32.
func (p Primitive) AsInt32() (int32, error) {
	v, err := p.intRange(KindInt32, math.MinInt32, math.MaxInt32)
	return int32(v), err
}

// AsInt64 returns the value of p as an int64.
func (p Primitive) AsInt64() (int64, error) {
	return p.intRange(KindInt64, math.MinInt64, math.MaxInt64)
}

// AsUint64 returns the value of p as a uint64. Negative values and values
// exceeding math.MaxUint64 report NumericOverflow.
func (p Primitive) AsUint64() (uint64, error) {
	z, err := p.AsBigInteger()
	if err != nil {
		return 0, p.mismatch(KindBigInteger)
	} else if !z.IsUint64() {
		return 0, p.overflow(KindBigInteger)
	}
	return z.Uint64(), nil
}

// AsFloat64 returns the value of p as a float64. Conversion from a large
// integer or decimal may lose precision.
func (p Primitive) AsFloat64() (float64, error) {
	switch p.kind {
	case KindByte, KindShort, KindInt32, KindInt64:
		return float64(p.i), nil
	case KindBigInteger:
		f, _ := new(big.Float).SetInt(p.big).Float64()
		return f, nil
	case KindFloat32, KindFloat64:
		return p.f, nil
	case KindBigDecimal:
		f, _ := p.dec.Float64()
		return f, nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(p.s), 64)
		if err != nil {
			return 0, p.mismatch(KindFloat64)
		}
		return f, nil
	}
	return 0, p.mismatch(KindFloat64)
}

// AsFloat32 returns the value of p as a float32. A finite value whose
// magnitude exceeds math.MaxFloat32 reports NumericOverflow.
func (p Primitive) AsFloat32() (float32, error) {
	f, err := p.AsFloat64()
	if err != nil {
		return 0, p.mismatch(KindFloat32)
	}
	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return 0, p.overflow(KindFloat32)
	}
	return float32(f), nil
}

// AsBigDecimal returns the value of p as an arbitrary-precision decimal.
func (p Primitive) AsBigDecimal() (decimal.Decimal, error) {
	switch p.kind {
	case KindByte, KindShort, KindInt32, KindInt64:
		return decimal.NewFromInt(p.i), nil
	case KindBigInteger:
		return decimal.NewFromBigInt(p.big, 0), nil
	case KindFloat32:
		if math.IsInf(p.f, 0) || math.IsNaN(p.f) {
			break
		}
		return decimal.NewFromFloat32(float32(p.f)), nil
	case KindFloat64:
		if math.IsInf(p.f, 0) || math.IsNaN(p.f) {
			break
		}
		return decimal.NewFromFloat(p.f), nil
	case KindBigDecimal:
		return p.dec, nil
	case KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(p.s))
		if err != nil {
			break
		}
		return d, nil
	}
	return decimal.Decimal{}, p.mismatch(KindBigDecimal)
}

// AsChar returns the value of p as a rune. A String must contain exactly one
// code point. An integer must be a valid code point.
func (p Primitive) AsChar() (rune, error) {
	switch {
	case p.kind == KindChar:
		return rune(p.i), nil
	case p.kind == KindString:
		if r, n := utf8.DecodeRuneInString(p.s); n > 0 && n == len(p.s) && r != utf8.RuneError {
			return r, nil
		}
	case p.kind.IsInteger():
		v, err := p.intRange(KindChar, 0, utf8.MaxRune)
		if err != nil {
			return 0, err
		}
		return rune(v), nil
	}
	return 0, p.mismatch(KindChar)
}

// AsString returns the canonical text of p. Every kind other than Null has a
// textual form; Null reports TypeMismatch.
func (p Primitive) AsString() (string, error) {
	switch p.kind {
	case KindNull:
		return "", p.mismatch(KindString)
	case KindBool:
		return strconv.FormatBool(p.i != 0), nil
	case KindByte, KindShort, KindInt32, KindInt64:
		return strconv.FormatInt(p.i, 10), nil
	case KindBigInteger:
		return p.big.String(), nil
	case KindFloat32:
		return strconv.FormatFloat(p.f, 'g', -1, 32), nil
	case KindFloat64:
		return strconv.FormatFloat(p.f, 'g', -1, 64), nil
	case KindBigDecimal:
		return p.dec.String(), nil
	case KindChar:
		return string(rune(p.i)), nil
	case KindString:
		return p.s, nil
	}
	panic(fmt.Sprintf("invalid primitive kind %v", p.kind))
}

// Value returns the value of p as a plain Go value. The concrete type is
// determined by the kind: nil, bool, int8, int16, int32, int64, *big.Int,
// float32, float64, decimal.Decimal, rune, or string.
func (p Primitive) Value() any {
	switch p.kind {
	case KindBool:
		return p.i != 0
	case KindByte:
		return int8(p.i)
	case KindShort:
		return int16(p.i)
	case KindInt32:
		return int32(p.i)
	case KindInt64:
		return p.i
	case KindBigInteger:
		return new(big.Int).Set(p.big)
	case KindFloat32:
		return float32(p.f)
	case KindFloat64:
		return p.f
	case KindBigDecimal:
		return p.dec
	case KindChar:
		return rune(p.i)
	case KindString:
		return p.s
	}
	return nil
}

// String renders p as JSON-like text: strings and characters are quoted and
// null is rendered as "null".
func (p Primitive) String() string {
	switch p.kind {
	case KindNull:
		return "null"
	case KindString, KindChar:
		s, _ := p.AsString()
		return strconv.Quote(s)
	}
	s, _ := p.AsString()
	return s
}

// Equal reports whether p and q have the same kind and value.  Floating-point
// NaN values are equal to each other, and decimals are compared numerically.
func (p Primitive) Equal(q Primitive) bool {
	if p.kind != q.kind {
		return false
	}
	switch p.kind {
	case KindBigInteger:
		return p.big.Cmp(q.big) == 0
	case KindFloat32, KindFloat64:
		return p.f == q.f || (math.IsNaN(p.f) && math.IsNaN(q.f))
	case KindBigDecimal:
		return p.dec.Equal(q.dec)
	case KindString:
		return p.s == q.s
	}
	return p.i == q.i
}
