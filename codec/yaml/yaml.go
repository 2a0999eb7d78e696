// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package yaml implements a codec between YAML text and trees.
//
// Only the first document of a stream is parsed. Anchors and aliases are
// expanded, and merge keys ("<<") copy the members of the merged mappings
// that the enclosing mapping does not set itself. Scalars tagged as
// timestamps or binary data, or with application-specific tags, are
// represented as strings.
package yaml

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"

	"github.com/creachadair/jbind/codec"
	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth is the nesting limit used by a Codec with MaxDepth zero.
const DefaultMaxDepth = 512

// Codec parses and serializes YAML. A zero Codec is ready for use.
type Codec struct {
	// MaxDepth bounds the nesting of mappings, sequences, and aliases in the
	// input.
	MaxDepth int

	// Indent is the number of spaces per nesting level in the output
	// (default 2).
	Indent int
}

// Parse parses the first YAML document in data. An empty document is Null.
func (c Codec) Parse(data []byte) (tree.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return tree.Null(), nil
	}
	b := builder{maxDepth: c.MaxDepth}
	if b.maxDepth <= 0 {
		b.maxDepth = DefaultMaxDepth
	}
	n, err := b.node(doc.Content[0], 0)
	if err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return n, nil
}

// Serialize renders n as a YAML document.
func (c Codec) Serialize(n tree.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(cmp.Or(c.Indent, 2))
	if err := enc.Encode(toYAML(n)); err != nil {
		return nil, fmt.Errorf("serialize YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("serialize YAML: %w", err)
	}
	return buf.Bytes(), nil
}

type builder struct {
	maxDepth int
}

func (b builder) node(n *yaml.Node, depth int) (tree.Node, error) {
	if depth > b.maxDepth {
		return nil, errs.RecursionLimit(b.maxDepth)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return tree.Null(), nil
		}
		return b.node(n.Content[0], depth)

	case yaml.AliasNode:
		return b.node(n.Alias, depth+1)

	case yaml.SequenceNode:
		a := tree.NewArray()
		for _, e := range n.Content {
			v, err := b.node(e, depth+1)
			if err != nil {
				return nil, err
			}
			a.Add(v)
		}
		return a, nil

	case yaml.MappingNode:
		o := tree.NewObject()
		if err := b.mapping(o, n, depth, false); err != nil {
			return nil, err
		}
		return o, nil

	case yaml.ScalarNode:
		return scalar(n)
	}
	return nil, fmt.Errorf("line %d: unexpected YAML node kind %v", n.Line, n.Kind)
}

// mapping adds the members of n to o. If merged is true, members already
// present in o are left unchanged.
func (b builder) mapping(o *tree.Object, n *yaml.Node, depth int, merged bool) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge" {
			if err := b.merge(o, val, depth+1); err != nil {
				return err
			}
			continue
		}
		if key.Kind == yaml.AliasNode {
			key = key.Alias
		}
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: mapping key must be a scalar", key.Line)
		}
		if merged && o.Has(key.Value) {
			continue
		}
		v, err := b.node(val, depth+1)
		if err != nil {
			return err
		}
		o.Set(key.Value, v)
	}
	return nil
}

// merge adds to o the members of the mapping or sequence of mappings in n
// that o does not already have.
func (b builder) merge(o *tree.Object, n *yaml.Node, depth int) error {
	if depth > b.maxDepth {
		return errs.RecursionLimit(b.maxDepth)
	}
	switch n.Kind {
	case yaml.AliasNode:
		return b.merge(o, n.Alias, depth+1)
	case yaml.MappingNode:
		return b.mapping(o, n, depth, true)
	case yaml.SequenceNode:
		for _, e := range n.Content {
			if err := b.merge(o, e, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("line %d: merge value must be a mapping", n.Line)
}

var isDecimalInt = regexp.MustCompile(`^[-+]?[0-9]+$`)

func scalar(n *yaml.Node) (tree.Node, error) {
	switch n.ShortTag() {
	case "!!null":
		return tree.Null(), nil

	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return tree.Bool(v), nil

	case "!!int":
		return integer(n)

	case "!!float":
		if isDecimalInt.MatchString(n.Value) {
			return codec.Integer(strings.TrimPrefix(n.Value, "+"))
		}
		if p, err := codec.Real(n.Value); err == nil {
			return p, nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return tree.Float64(f), nil
	}
	return tree.String(n.Value), nil
}

// integer converts an integer scalar, which may use a base prefix or digit
// separators.
func integer(n *yaml.Node) (tree.Node, error) {
	var v int64
	if err := n.Decode(&v); err == nil {
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return tree.Int32(int32(v)), nil
		}
		return tree.Int64(v), nil
	}
	z, ok := new(big.Int).SetString(n.Value, 0)
	if !ok {
		return nil, errs.TypeMismatch("line %d: invalid integer %q", n.Line, n.Value)
	}
	return tree.BigInteger(z), nil
}

// toYAML converts n to a YAML node graph for encoding.
func toYAML(n tree.Node) *yaml.Node {
	switch t := n.(type) {
	case *tree.Object:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for key, v := range t.Entries() {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				toYAML(v),
			)
		}
		return out

	case *tree.Array:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, v := range t.Values() {
			out.Content = append(out.Content, toYAML(v))
		}
		return out

	case tree.Primitive:
		return primitive(t)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func primitive(p tree.Primitive) *yaml.Node {
	out := &yaml.Node{Kind: yaml.ScalarNode}
	switch k := p.Kind(); {
	case k == tree.KindNull:
		out.Tag, out.Value = "!!null", "null"
	case k == tree.KindBool:
		b, _ := p.AsBool()
		out.Tag, out.Value = "!!bool", fmt.Sprint(b)
	case k.IsInteger():
		out.Tag = "!!int"
		out.Value, _ = codec.FormatNumber(p)
	case k.IsNumber():
		out.Tag = "!!float"
		s, ok := codec.FormatNumber(p)
		if !ok {
			s = nonFinite(p)
		} else if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		out.Value = s
	default:
		out.Tag = "!!str"
		out.Value, _ = p.AsString()
	}
	return out
}

func nonFinite(p tree.Primitive) string {
	switch codec.NonFinite(p) {
	case "NaN":
		return ".nan"
	case "Infinity":
		return ".inf"
	}
	return "-.inf"
}
