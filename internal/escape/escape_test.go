// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"

	"github.com/creachadair/jbind/internal/escape"
	"go4.org/mem"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		ascii bool
		want  string
	}{
		{"", false, ""},
		{"plain text", false, "plain text"},
		{"a\"b\\c", false, `a\"b\\c`},
		{"\n\t\x01", false, `\n\t\u0001`},
		{"caf\u00e9", false, "caf\u00e9"},
		{"caf\u00e9", true, `caf\u00e9`},
		{"\U0001f600", true, `\ud83d\ude00`},
		{"\u2028", false, `\u2028`},
	}
	for _, tc := range tests {
		if got := string(escape.Quote(mem.S(tc.input), tc.ascii)); got != tc.want {
			t.Errorf("Quote(%q, %v): got %q, want %q", tc.input, tc.ascii, got, tc.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{`no escapes`, "no escapes"},
		{`\"\\\/\b\f\n\r\t`, "\"\\/\b\f\n\r\t"},
		{`caf\u00e9`, "caf\u00e9"},
		{`\ud83d\ude00!`, "\U0001f600!"},
		{`\ud83d alone`, "\ufffd alone"},
		{`\q`, "\ufffd"},
	}
	for _, tc := range tests {
		got, err := escape.Unquote(mem.S(tc.input))
		if err != nil {
			t.Errorf("Unquote(%q): unexpected error: %v", tc.input, err)
		} else if string(got) != tc.want {
			t.Errorf("Unquote(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}

	for _, bad := range []string{`\`, `\u12`} {
		if got, err := escape.Unquote(mem.S(bad)); err == nil {
			t.Errorf("Unquote(%q): got %q, want error", bad, got)
		}
	}
}
