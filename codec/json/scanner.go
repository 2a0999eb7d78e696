// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package json

import (
	"fmt"
	"io"
	"unicode/utf8"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	if int(t) >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[t]
}

// A Scanner reads lexical tokens from a complete input.  Each call to Next
// advances the scanner to the next token, or reports an error.
type Scanner struct {
	src mem.RO
	tok Token
	err error

	pos, end int // start and end offsets of current token

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes data.
// The scanner does not modify data, and the caller must not modify it while
// the scanner is in use.
func NewScanner(data []byte) *Scanner { return &Scanner{src: mem.B(data)} }

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() error {
	s.err = nil
	s.tok = Invalid

	// Discard whitespace.
	for s.end < s.src.Len() && isSpace(s.src.At(s.end)) {
		if s.src.At(s.end) == '\n' {
			s.eline++
			s.ecol = 0
		} else {
			s.ecol++
		}
		s.end++
	}
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
	if s.end == s.src.Len() {
		return s.setErr(io.EOF)
	}

	switch ch := s.src.At(s.end); {
	case isSelfDelim(ch):
		s.tok = selfDelim[ch]
		s.skip(1)
		return nil
	case ch == '"':
		return s.scanString()
	case isNumStart(ch):
		return s.scanNumber()
	case ch == 't':
		return s.scanConstant(True, "true")
	case ch == 'f':
		return s.scanConstant(False, "false")
	case ch == 'n':
		return s.scanConstant(Null, "null")
	}
	r, _ := mem.DecodeRune(s.rest())
	return s.failf("unexpected %q", r)
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns a read-only view of the undecoded text of the current token.
func (s *Scanner) Text() mem.RO { return s.src.Slice(s.pos, s.end) }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

func (s *Scanner) rest() mem.RO { return s.src.SliceFrom(s.end) }

func (s *Scanner) skip(n int) { s.end += n; s.ecol += n }

// peek returns the byte at the current offset, or 0 at the end of input.
func (s *Scanner) peek() byte {
	if s.end < s.src.Len() {
		return s.src.At(s.end)
	}
	return 0
}

func (s *Scanner) scanString() error {
	s.skip(1) // open quote
	var esc bool
	for {
		rest := s.rest()
		if rest.Len() == 0 {
			return s.failf("unterminated string")
		}
		ch, n := mem.DecodeRune(rest)
		if ch == utf8.RuneError && n == 1 {
			return s.failf("invalid UTF-8 in string")
		}
		if esc {
			// We are awaiting the completion of a \-escape.
			switch ch {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			case 'u':
				s.skip(1)
				if err := s.readHex4(); err != nil {
					return s.failf("invalid Unicode escape: %w", err)
				}
				esc = false
				continue
			default:
				return s.failf("invalid %q after escape", ch)
			}
			esc = false
		} else if ch == '"' {
			s.skip(1)
			s.tok = String
			return nil
		} else if ch < ' ' {
			return s.failf("unescaped control %q", ch)
		} else {
			esc = ch == '\\'
		}
		s.skip(n)
	}
}

func (s *Scanner) scanNumber() error {
	if s.peek() == '-' {
		// If there is a leading sign, we need at least one digit.
		s.skip(1)
		if !isDigit(s.peek()) {
			return s.failf("want digit after sign")
		}
	}

	// Check for extra leading zeroes, which are disallowed by the JSON spec.
	// That is: 0.12 is OK, 01.2 is not.
	if s.peek() == '0' {
		s.skip(1)
		if isDigit(s.peek()) {
			return s.failf("extra leading zeroes")
		}
	} else {
		s.readDigits()
	}

	s.tok = Integer
	if s.peek() == '.' {
		s.skip(1)
		if s.readDigits() == 0 {
			return s.failf("no digits after decimal point")
		}
		s.tok = Number
	}
	if ch := s.peek(); ch == 'e' || ch == 'E' {
		s.skip(1)
		if ch := s.peek(); ch == '+' || ch == '-' {
			s.skip(1)
		}
		if s.readDigits() == 0 {
			return s.failf("missing exponent digits")
		}
		s.tok = Number
	}
	return nil
}

func (s *Scanner) scanConstant(tok Token, want string) error {
	rest := s.rest()
	n := 0
	for n < rest.Len() && isNameByte(rest.At(n)) {
		n++
	}
	if got := rest.SliceTo(n); !got.EqualString(want) {
		return s.failf("unknown constant %q", got.StringCopy())
	}
	s.skip(n)
	s.tok = tok
	return nil
}

// readDigits consumes decimal digits and reports how many it read.
func (s *Scanner) readDigits() int {
	var n int
	for isDigit(s.peek()) {
		s.skip(1)
		n++
	}
	return n
}

// readHex4 consumes exactly 4 hexadecimal digits from the input.
func (s *Scanner) readHex4() error {
	for i := 0; i < 4; i++ {
		if ch := s.peek(); !isHexDigit(ch) {
			return fmt.Errorf("not a hex digit: %q", ch)
		}
		s.skip(1)
	}
	return nil
}

type posError struct {
	pos int
	err error
}

func (p posError) Error() string {
	return fmt.Sprintf("%s (offset %d)", p.err.Error(), p.pos)
}

func (p posError) Unwrap() error { return p.err }

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

func (s *Scanner) failf(msg string, args ...any) error {
	return s.setErr(posError{s.end, fmt.Errorf(msg, args...)})
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isNameByte(ch byte) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

var selfDelim = [...]Token{
	'{': LBrace, '}': RBrace, '[': LSquare, ']': RSquare, ',': Comma, ':': Colon,
}

func isSelfDelim(ch byte) bool { return int(ch) < len(selfDelim) && selfDelim[ch] != Invalid }
