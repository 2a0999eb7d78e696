// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"math/big"
	"net"
	"net/netip"
	"net/url"
	"reflect"
	"time"

	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UUIDMode selects the tree representation of a uuid.UUID.
type UUIDMode int

// Constants defining the valid UUIDMode values.
const (
	UUIDString UUIDMode = iota // canonical hyphenated string
	UUIDBytes                  // array of 16 Byte primitives
	UUIDLongs                  // array of two Int64 primitives, most significant first
)

// TimeMode selects the tree representation of a time.Time.
type TimeMode int

// Constants defining the valid TimeMode values.
const (
	TimeRFC3339   TimeMode = iota // RFC 3339 string with nanoseconds
	TimeUnixMilli                 // Int64 milliseconds since the Unix epoch
)

// DefaultOptions control the representations used by the built-in type
// processors. Decoding accepts any of the representations regardless of mode.
type DefaultOptions struct {
	UUID UUIDMode
	Time TimeMode
}

// builtinProcessors returns the built-in processors for common scalar
// wrapper, date and time, and network types.
func builtinProcessors(opts DefaultOptions) map[reflect.Type]TypeProcessor {
	return map[reflect.Type]TypeProcessor{
		reflect.TypeFor[time.Time]():       timeProc(opts.Time),
		reflect.TypeFor[time.Duration]():   durationProc,
		reflect.TypeFor[big.Int]():         bigIntProc,
		reflect.TypeFor[decimal.Decimal](): decimalProc,
		reflect.TypeFor[uuid.UUID]():       uuidProc(opts.UUID),
		reflect.TypeFor[url.URL]():         urlProc,
		reflect.TypeFor[net.IP]():          ipProc,
		reflect.TypeFor[netip.Addr]():      textOf(netip.ParseAddr),
		reflect.TypeFor[netip.AddrPort]():  textOf(netip.ParseAddrPort),
	}
}

// asText returns the string value of n, or a TypeMismatch error.
func asText(n tree.Node) (string, error) {
	p, err := tree.AsPrimitive(n)
	if err != nil {
		return "", err
	}
	if p.Kind() != tree.KindString {
		return "", errs.TypeMismatch("got %s, want string", tree.Describe(n))
	}
	return p.AsString()
}

// textOf returns a processor for a type T rendered by its String method and
// parsed by parse.
func textOf[T fmt.Stringer](parse func(string) (T, error)) Funcs[T] {
	return Funcs[T]{
		To: func(v T) (tree.Node, error) { return tree.String(v.String()), nil },
		From: func(n tree.Node) (T, error) {
			s, err := asText(n)
			if err != nil {
				var zero T
				return zero, err
			}
			return parse(s)
		},
	}
}

func timeProc(mode TimeMode) Funcs[time.Time] {
	return Funcs[time.Time]{
		To: func(v time.Time) (tree.Node, error) {
			if mode == TimeUnixMilli {
				return tree.Int64(v.UnixMilli()), nil
			}
			return tree.String(v.Format(time.RFC3339Nano)), nil
		},
		From: func(n tree.Node) (time.Time, error) {
			p, err := tree.AsPrimitive(n)
			if err != nil {
				return time.Time{}, err
			}
			if p.Kind().IsInteger() {
				ms, err := p.AsInt64()
				if err != nil {
					return time.Time{}, err
				}
				return time.UnixMilli(ms).UTC(), nil
			}
			s, err := asText(p)
			if err != nil {
				return time.Time{}, err
			}
			return time.Parse(time.RFC3339Nano, s)
		},
	}
}

var durationProc = Funcs[time.Duration]{
	To: func(v time.Duration) (tree.Node, error) { return tree.String(v.String()), nil },
	From: func(n tree.Node) (time.Duration, error) {
		p, err := tree.AsPrimitive(n)
		if err != nil {
			return 0, err
		}
		if p.Kind().IsInteger() {
			ns, err := p.AsInt64()
			return time.Duration(ns), err
		}
		s, err := asText(p)
		if err != nil {
			return 0, err
		}
		return time.ParseDuration(s)
	},
}

var bigIntProc = Funcs[big.Int]{
	To: func(v big.Int) (tree.Node, error) { return tree.BigInteger(&v), nil },
	From: func(n tree.Node) (big.Int, error) {
		p, err := tree.AsPrimitive(n)
		if err != nil {
			return big.Int{}, err
		}
		z, err := p.AsBigInteger()
		if err != nil {
			return big.Int{}, err
		}
		return *z, nil
	},
}

var decimalProc = Funcs[decimal.Decimal]{
	To: func(v decimal.Decimal) (tree.Node, error) { return tree.BigDecimal(v), nil },
	From: func(n tree.Node) (decimal.Decimal, error) {
		p, err := tree.AsPrimitive(n)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return p.AsBigDecimal()
	},
}

func uuidProc(mode UUIDMode) Funcs[uuid.UUID] {
	return Funcs[uuid.UUID]{
		To: func(v uuid.UUID) (tree.Node, error) {
			switch mode {
			case UUIDBytes:
				a := tree.NewArray()
				for _, b := range v {
					a.Add(tree.Byte(int8(b)))
				}
				return a, nil
			case UUIDLongs:
				return tree.NewArray(
					tree.Int64(int64(binary.BigEndian.Uint64(v[:8]))),
					tree.Int64(int64(binary.BigEndian.Uint64(v[8:]))),
				), nil
			}
			return tree.String(v.String()), nil
		},
		From: func(n tree.Node) (uuid.UUID, error) {
			a, ok := n.(*tree.Array)
			if !ok {
				s, err := asText(n)
				if err != nil {
					return uuid.Nil, err
				}
				return uuid.Parse(s)
			}
			var out uuid.UUID
			switch a.Len() {
			case 16:
				for i, e := range a.Values() {
					p, err := tree.AsPrimitive(e)
					if err != nil {
						return uuid.Nil, err
					}
					b, err := p.AsByte()
					if err != nil {
						return uuid.Nil, err
					}
					out[i] = byte(b)
				}
			case 2:
				for i, e := range a.Values() {
					p, err := tree.AsPrimitive(e)
					if err != nil {
						return uuid.Nil, err
					}
					v, err := p.AsInt64()
					if err != nil {
						return uuid.Nil, err
					}
					binary.BigEndian.PutUint64(out[8*i:], uint64(v))
				}
			default:
				return uuid.Nil, errs.TypeMismatch("uuid array has %d elements, want 2 or 16", a.Len())
			}
			return out, nil
		},
	}
}

var urlProc = Funcs[url.URL]{
	To: func(v url.URL) (tree.Node, error) { return tree.String(v.String()), nil },
	From: func(n tree.Node) (url.URL, error) {
		s, err := asText(n)
		if err != nil {
			return url.URL{}, err
		}
		u, err := url.Parse(s)
		if err != nil {
			return url.URL{}, err
		}
		return *u, nil
	},
}

var ipProc = Funcs[net.IP]{
	To: func(v net.IP) (tree.Node, error) {
		if v == nil {
			return tree.Null(), nil
		}
		return tree.String(v.String()), nil
	},
	From: func(n tree.Node) (net.IP, error) {
		if tree.IsNull(n) {
			return nil, nil
		}
		s, err := asText(n)
		if err != nil {
			return nil, err
		}
		ip := net.ParseIP(s)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address %q", s)
		}
		return ip, nil
	},
}

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// isTextual reports whether values of type t can be rendered with MarshalText
// and restored with UnmarshalText.
func isTextual(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return false
	}
	return (t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)) &&
		reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// textProcessor handles enum-like types that implement encoding.TextMarshaler
// and encoding.TextUnmarshaler. A value is rendered as a String primitive;
// decoding a node that is not a string, or whose text is rejected by the
// type, reports EnumExpected.
type textProcessor struct{ t reflect.Type }

func (tp textProcessor) ToTree(v any) (tree.Node, error) {
	m, ok := v.(encoding.TextMarshaler)
	if !ok {
		// The method has a pointer receiver; marshal a copy.
		ptr := reflect.New(tp.t)
		ptr.Elem().Set(reflect.ValueOf(v))
		m = ptr.Interface().(encoding.TextMarshaler)
	}
	text, err := m.MarshalText()
	if err != nil {
		return nil, err
	}
	return tree.String(string(text)), nil
}

func (tp textProcessor) FromTree(n tree.Node) (any, error) {
	s, err := asText(n)
	if err != nil {
		return nil, errs.EnumExpected(tp.t, "got %s, want string", tree.Describe(n))
	}
	ptr := reflect.New(tp.t)
	if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		e := errs.EnumExpected(tp.t, "invalid text %q", s)
		e.Err = err
		return nil, e
	}
	return ptr.Elem().Interface(), nil
}
