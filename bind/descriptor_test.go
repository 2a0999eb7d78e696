// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/creachadair/jbind/bind"
	"github.com/creachadair/jbind/errs"
	"github.com/google/go-cmp/cmp"
)

type Inner struct {
	Name   string
	Shared int
	Deep   string
}

type Middle struct {
	Inner
	Label string
}

type Outer struct {
	*Middle
	Shared  string
	Skip    int `bind:"-"`
	Renamed int `bind:"renamed,omitnull,always"`
	private int
	Level   Inner `bind:"level"`
}

func memberKeys(d *bind.Descriptor) []string {
	var keys []string
	for _, m := range d.Members {
		keys = append(keys, m.Key)
	}
	return keys
}

func TestDescribePromotion(t *testing.T) {
	d, err := bind.Describe(reflect.TypeFor[Outer](), bind.NamingIdentity)
	if err != nil {
		t.Fatalf("Describe: unexpected error: %v", err)
	}
	// Members promoted through Middle and Inner are ordered by their field
	// index paths. Outer.Shared hides Inner.Shared.
	want := []string{"Name", "Deep", "Label", "Shared", "renamed", "level"}
	if diff := cmp.Diff(memberKeys(d), want); diff != "" {
		t.Errorf("Member keys (-got, +want):\n%s", diff)
	}

	m, ok := d.Lookup("Shared")
	if !ok || m.Type != reflect.TypeFor[string]() {
		t.Errorf(`Lookup("Shared"): got %+v, %v; want string member`, m, ok)
	}
	if diff := cmp.Diff(m.Index, []int{1}); diff != "" {
		t.Errorf("Shared index (-got, +want):\n%s", diff)
	}
	m, _ = d.Lookup("Deep")
	if diff := cmp.Diff(m.Index, []int{0, 0, 2}); diff != "" {
		t.Errorf("Deep index (-got, +want):\n%s", diff)
	}
	m, _ = d.Lookup("renamed")
	if m.Name != "Renamed" || !m.OmitNull || !m.Always || m.OmitEmpty {
		t.Errorf("Renamed options: got %+v", m)
	}
	for _, key := range []string{"Skip", "private", "Middle", "Inner"} {
		if _, ok := d.Lookup(key); ok {
			t.Errorf("Lookup(%q): unexpectedly found", key)
		}
	}

	if _, err := bind.Describe(reflect.TypeFor[int](), bind.NamingIdentity); !errors.Is(err, errs.ErrTypeMismatch) {
		t.Errorf("Describe(int): got %v, want TypeMismatch", err)
	}
}

func TestPromotedRoundTrip(t *testing.T) {
	in := Outer{
		Middle:  &Middle{Inner: Inner{Name: "n", Deep: "d"}, Label: "l"},
		Shared:  "s",
		Renamed: 4,
		Level:   Inner{Shared: 9},
	}
	n, err := bind.Default.ToTree(in)
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	const want = `{"Name":"n","Deep":"d","Label":"l","Shared":"s","renamed":4,` +
		`"level":{"Name":"","Shared":9,"Deep":""}}`
	if got := n.String(); got != want {
		t.Errorf("ToTree:\n got %s\nwant %s", got, want)
	}

	// Decoding allocates the embedded pointer.
	out, err := bind.To[Outer](bind.Default, n)
	if err != nil {
		t.Fatalf("To: unexpected error: %v", err)
	}
	if diff := cmp.Diff(out, in, cmp.AllowUnexported(Outer{})); diff != "" {
		t.Errorf("Round trip (-got, +want):\n%s", diff)
	}

	// A nil embedded pointer contributes no members.
	n, err = bind.Default.ToTree(Outer{Shared: "x"})
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	if got, want := n.String(), `{"Shared":"x","renamed":0,"level":{"Name":"","Shared":0,"Deep":""}}`; got != want {
		t.Errorf("ToTree nil embedded:\n got %s\nwant %s", got, want)
	}
}

func TestNaming(t *testing.T) {
	type account struct {
		UserName      string
		MaxRetryCount int
		Fixed         bool `bind:"FIXED"`
	}
	tests := []struct {
		naming bind.Naming
		want   []string
	}{
		{bind.NamingIdentity, []string{"UserName", "MaxRetryCount", "FIXED"}},
		{bind.NamingLowerCamel, []string{"userName", "maxRetryCount", "FIXED"}},
		{bind.NamingSnake, []string{"user_name", "max_retry_count", "FIXED"}},
		{bind.NamingKebab, []string{"user-name", "max-retry-count", "FIXED"}},
	}
	for _, tc := range tests {
		d, err := bind.Describe(reflect.TypeFor[account](), tc.naming)
		if err != nil {
			t.Fatalf("Describe: unexpected error: %v", err)
		}
		if diff := cmp.Diff(memberKeys(d), tc.want); diff != "" {
			t.Errorf("Naming %v (-got, +want):\n%s", tc.naming, diff)
		}
	}

	p := newProcessor(t, bind.NewBuilder().Naming(bind.NamingSnake))
	n, err := p.ToTree(account{UserName: "q", MaxRetryCount: 3})
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	if got, want := n.String(), `{"user_name":"q","max_retry_count":3,"FIXED":false}`; got != want {
		t.Errorf("ToTree: got %s, want %s", got, want)
	}
}

func TestDescribeConcurrent(t *testing.T) {
	type fresh struct {
		A, B int
		C    []string
	}
	const n = 64

	var wg sync.WaitGroup
	got := make([]*bind.Descriptor, n)
	start := make(chan struct{})
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			d, err := bind.Describe(reflect.TypeFor[fresh](), bind.NamingIdentity)
			if err != nil {
				t.Errorf("Describe: unexpected error: %v", err)
			}
			got[i] = d
		}()
	}
	close(start)
	wg.Wait()

	for i, d := range got {
		if d != got[0] {
			t.Errorf("Descriptor %d differs from descriptor 0", i)
		}
	}
	if diff := cmp.Diff(memberKeys(got[0]), []string{"A", "B", "C"}); diff != "" {
		t.Errorf("Member keys (-got, +want):\n%s", diff)
	}
}
