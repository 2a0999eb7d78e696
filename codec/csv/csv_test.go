// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package csv_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/creachadair/jbind/codec/csv"
	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		codec csv.Codec
		input string
		want  string
	}{
		{"Trimmed", csv.Codec{}, "name, qty ,note\nbolt, 4, \"a, b\"\n nut,10,\n",
			`[{"name":"bolt","qty":"4","note":"a, b"},{"name":"nut","qty":"10","note":""}]`},
		{"Semicolon", csv.Codec{Comma: ';'}, "a;b\n1;2\n", `[{"a":"1","b":"2"}]`},
		{"Empty", csv.Codec{}, "", `[]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := tc.codec.Parse([]byte(tc.input))
			if err != nil {
				t.Fatalf("Parse: unexpected error: %v", err)
			}
			if got := n.(*tree.Array).String(); got != tc.want {
				t.Errorf("Parse: got %s, want %s", got, tc.want)
			}
		})
	}

	_, err := csv.Codec{}.Parse([]byte("a,b\n1,2,3\n"))
	if err == nil || !strings.Contains(err.Error(), "parse CSV") {
		t.Errorf("Parse ragged: got %v, want parse CSV error", err)
	}
}

func TestSerialize(t *testing.T) {
	n := tree.NewArray(
		tree.NewObject().Set("name", tree.String("bolt")).Set("qty", tree.Int32(4)),
		tree.NewObject().Set("qty", tree.Int32(10)).Set("note", tree.String("a, b")),
		tree.NewObject().Set("name", tree.Null()),
	)
	out, err := csv.Codec{}.Serialize(n)
	if err != nil {
		t.Fatalf("Serialize: unexpected error: %v", err)
	}
	if diff := cmp.Diff(string(out), "name,qty,note\nbolt,4,\n,10,\"a, b\"\n,,\n"); diff != "" {
		t.Errorf("Serialize (-got, +want):\n%s", diff)
	}

	out, err = csv.Codec{Comma: '\t', CRLF: true}.Serialize(tree.NewObject().Set("k", tree.Bool(true)))
	if err != nil {
		t.Fatalf("Serialize TSV: unexpected error: %v", err)
	}
	if got, want := string(out), "k\r\ntrue\r\n"; got != want {
		t.Errorf("Serialize TSV: got %q, want %q", got, want)
	}
}

func TestSerializeErrors(t *testing.T) {
	tests := []struct {
		input tree.Node
		path  string
	}{
		{tree.String("x"), ""},
		{tree.NewArray(tree.NewObject(), tree.Int32(1)), "[1]"},
		{tree.NewArray(tree.NewObject().Set("k", tree.NewArray())), "[0].k"},
	}
	for _, tc := range tests {
		_, err := csv.Codec{}.Serialize(tc.input)
		var e *errs.Error
		if !errors.As(err, &e) {
			t.Errorf("Serialize(%v): got %v, want *errs.Error", tc.input, err)
			continue
		}
		if e.Kind != errs.KindTypeMismatch {
			t.Errorf("Serialize(%v): got kind %v, want %v", tc.input, e.Kind, errs.KindTypeMismatch)
		}
		if got := e.PathString(); got != tc.path {
			t.Errorf("Serialize(%v): got path %q, want %q", tc.input, got, tc.path)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	in := tree.NewArray(
		tree.NewObject().Set("a", tree.String("x\ny")).Set("b", tree.String(`say "hi"`)),
		tree.NewObject().Set("a", tree.String("")).Set("b", tree.String("z")),
	)
	c := csv.Codec{}
	out, err := c.Serialize(in)
	if err != nil {
		t.Fatalf("Serialize: unexpected error: %v", err)
	}
	back, err := c.Parse(out)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if !tree.Equal(in, back) {
		t.Errorf("Round trip:\n%s\ngot  %v\nwant %v", out, back, in)
	}
}
