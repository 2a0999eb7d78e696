// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Quote encodes a string to escape characters for inclusion in a JSON string.
// The enclosing quotation marks are not added. If ascii is true, every
// non-ASCII rune is written as a \u escape, using a surrogate pair for runes
// outside the Basic Multilingual Plane.
func Quote(src mem.RO, ascii bool) []byte {
	buf := make([]byte, 0, src.Len())
	putU := func(r rune) {
		buf = append(buf, '\\', 'u',
			hexDigit[(r>>12)&15], hexDigit[(r>>8)&15], hexDigit[(r>>4)&15], hexDigit[r&15])
	}

	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)
		if r < utf8.RuneSelf {
			if r < ' ' {
				if b := controlEsc[r]; b != 0 {
					buf = append(buf, '\\', b)
				} else {
					putU(r)
				}
			} else if r == '\\' || r == '"' {
				buf = append(buf, '\\', byte(r))
			} else {
				buf = append(buf, byte(r))
			}
			continue
		}

		switch {
		case ascii && r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			putU(hi)
			putU(lo)
		case ascii, r == utf8.RuneError, r == '\u2028', r == '\u2029':
			putU(r)
		default:
			buf = utf8.AppendRune(buf, r)
		}
	}
	return buf
}
