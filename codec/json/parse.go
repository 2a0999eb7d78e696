// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package json

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/creachadair/jbind/codec"
	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/internal/escape"
	"github.com/creachadair/jbind/tree"
)

// A parser builds a tree by recursive descent over the tokens of a scanner.
// Errors are propagated by panicking with a *SyntaxError, which parse recovers.
type parser struct {
	s        *Scanner
	maxDepth int
	dupKeys  bool
}

func (p *parser) parse() (_ tree.Node, err error) {
	defer func() {
		if x := recover(); x != nil {
			serr, ok := x.(*SyntaxError)
			if !ok {
				panic(x)
			}
			err = serr
		}
	}()

	if err := p.s.Next(); err == io.EOF {
		p.syntaxError(nil, "no value in input")
	} else if err != nil {
		p.syntaxError(err, "%v", err)
	}
	v := p.value(0)
	if err := p.s.Next(); err != io.EOF {
		if err != nil {
			p.syntaxError(err, "%v", err)
		}
		p.syntaxError(nil, "unexpected %v after value", p.s.Token())
	}
	return v, nil
}

// value consumes a single value of any type.
// Precondition: the current token begins the value.
func (p *parser) value(depth int) tree.Node {
	if depth >= p.maxDepth {
		p.syntaxError(errs.RecursionLimit(p.maxDepth), "nesting depth exceeds %d", p.maxDepth)
	}
	switch tok := p.s.Token(); tok {
	case LBrace:
		return p.object(depth)
	case LSquare:
		return p.array(depth)
	case String:
		return tree.String(p.unquote())
	case Integer:
		v, err := codec.Integer(p.s.Text().StringCopy())
		p.check(err)
		return v
	case Number:
		v, err := codec.Real(p.s.Text().StringCopy())
		p.check(err)
		return v
	case True, False:
		return tree.Bool(tok == True)
	case Null:
		return tree.Null()
	default:
		p.syntaxError(nil, "unexpected %v", tok)
		panic("unreachable")
	}
}

// object consumes zero or more key:value members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (p *parser) object(depth int) *tree.Object {
	obj := tree.NewObject()
	if p.advance(RBrace, String) == RBrace {
		return obj
	}
	for {
		key := p.unquote()
		if obj.Has(key) && !p.dupKeys {
			p.syntaxError(nil, "duplicate key %q", key)
		}
		p.advance(Colon)
		p.advance()
		obj.Set(key, p.value(depth+1))

		if p.advance(RBrace, Comma) == RBrace {
			return obj
		}
		p.advance(String)
	}
}

// array consumes zero or more comma-separated values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (p *parser) array(depth int) *tree.Array {
	arr := tree.NewArray()
	if p.advance() == RSquare {
		return arr
	}
	for {
		arr.Add(p.value(depth + 1))
		if p.advance(RSquare, Comma) == RSquare {
			return arr
		}
		p.advance()
	}
}

// unquote returns the decoded value of the current string token.
func (p *parser) unquote() string {
	text := p.s.Text()
	dec, err := escape.Unquote(text.Slice(1, text.Len()-1))
	p.check(err)
	return string(dec)
}

func (p *parser) advance(tokens ...Token) Token {
	err := p.s.Next()
	if err == io.EOF {
		p.syntaxError(err, "%v", tokLabel(tokens, "end of input"))
	} else if err != nil {
		p.syntaxError(err, "%v", err)
	}
	tok := p.s.Token()
	if len(tokens) != 0 && !slices.Contains(tokens, tok) {
		p.syntaxError(nil, "%v", tokLabel(tokens, tok))
	}
	return tok
}

func (p *parser) check(err error) {
	if err != nil {
		p.syntaxError(err, "%v", err)
	}
}

func (p *parser) syntaxError(err error, msg string, args ...any) {
	loc := p.s.Location()
	panic(&SyntaxError{
		Location: loc.First,
		Offset:   loc.Pos,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	})
}

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprintf("expected value, got %v", got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, last)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}
