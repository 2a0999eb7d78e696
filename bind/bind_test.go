// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind_test

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/creachadair/jbind/bind"
	"github.com/creachadair/jbind/errs"
	"github.com/creachadair/jbind/tree"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Color int

const (
	Red Color = iota
	Green
)

func (c Color) String() string {
	switch c {
	case Red:
		return "RED"
	case Green:
		return "GREEN"
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

type Base struct {
	ID   int64 `bind:"id"`
	Note string
}

type Address struct {
	Street string
	Zip    *int
}

type Record struct {
	Base
	Name   string
	Age    int8
	Score  float64
	Ratio  float32
	Active bool
	Small  uint16
	Big    uint64
	Letter rune
	Tags   []string
	Empty  []int
	Grid   [2]int32
	Attrs  map[string]int
	Home   *Address
	Color  Color
	When   time.Time
	Wait   time.Duration
	Amount decimal.Decimal
	Token  uuid.UUID
	Extra  any
}

func newProcessor(t *testing.T, b *bind.Builder) *bind.Processor {
	t.Helper()
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: unexpected error: %v", err)
	}
	return p
}

func TestRoundTrip(t *testing.T) {
	zip := 12345
	input := Record{
		Base:   Base{ID: 7, Note: "first"},
		Name:   "alpha",
		Age:    -12,
		Score:  98.5,
		Ratio:  0.25,
		Active: true,
		Small:  65535,
		Big:    math.MaxUint64,
		Letter: 'é',
		Tags:   []string{},
		Grid:   [2]int32{3, -4},
		Attrs:  map[string]int{"b": 2, "a": 1},
		Home:   &Address{Street: "Main", Zip: &zip},
		Color:  Green,
		When:   time.Date(2024, 5, 1, 12, 30, 0, 500, time.UTC),
		Wait:   90 * time.Second,
		Amount: decimal.RequireFromString("12.34"),
		Token:  uuid.MustParse("0b6b0b38-5b39-4b1c-9d4a-0c4b2f0e1a11"),
		Extra:  map[string]any{"k": "v", "ok": true},
	}

	for _, mode := range []bind.UUIDMode{bind.UUIDString, bind.UUIDBytes, bind.UUIDLongs} {
		t.Run(fmt.Sprintf("UUIDMode=%d", mode), func(t *testing.T) {
			p := newProcessor(t, bind.NewBuilder().
				RegisterEnum(Red, Green).
				DefaultOptions(bind.DefaultOptions{UUID: mode}))

			n, err := p.ToTree(input)
			if err != nil {
				t.Fatalf("ToTree: unexpected error: %v", err)
			}
			got, err := p.FromTree(n, reflect.TypeFor[Record]())
			if err != nil {
				t.Fatalf("FromTree: unexpected error: %v", err)
			}
			if diff := cmp.Diff(got, input); diff != "" {
				t.Errorf("Round trip (-got, +want):\n%s", diff)
			}
		})
	}
}

func TestToTreeShape(t *testing.T) {
	type inner struct {
		On bool
	}
	type shape struct {
		Name  string
		Count int
		Items []int8
		Maybe *inner
		Map   map[int]string
	}
	n, err := bind.Default.ToTree(shape{
		Name:  "x",
		Count: 3,
		Items: []int8{1, 2},
		Map:   map[int]string{10: "ten", 2: "two"},
	})
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	const want = `{"Name":"x","Count":3,"Items":[1,2],"Maybe":null,"Map":{"10":"ten","2":"two"}}`
	if got := n.String(); got != want {
		t.Errorf("ToTree:\n got %s\nwant %s", got, want)
	}
	m, _ := n.(*tree.Object).Get("Items")
	e, _ := m.(*tree.Array).Get(0)
	if k := e.(tree.Primitive).Kind(); k != tree.KindByte {
		t.Errorf("Element kind: got %v, want Byte", k)
	}
}

type Server struct {
	Host  string `default:"localhost"`
	Port  int    `default:"8080"`
	Debug bool
	Name  string
	Wait  time.Duration `default:"5s"`
}

type Limits struct {
	Max int
	Min int
}

func (l *Limits) Defaults() { l.Max = 10 }

func TestIgnoreDefaults(t *testing.T) {
	p := newProcessor(t, bind.NewBuilder().IgnoreDefaults(true))

	tests := []struct {
		input any
		want  string
	}{
		{Server{Host: "localhost", Port: 9090, Name: "x", Wait: 5 * time.Second}, `{"Port":9090,"Name":"x"}`},
		{Server{Host: "example.com", Port: 8080, Debug: true}, `{"Host":"example.com","Debug":true,"Wait":"0s"}`},
		{Limits{Max: 10, Min: 3}, `{"Min":3}`},
		{Limits{Max: 0, Min: 0}, `{"Max":0}`},
	}
	for _, tc := range tests {
		n, err := p.ToTree(tc.input)
		if err != nil {
			t.Fatalf("ToTree(%+v): unexpected error: %v", tc.input, err)
		}
		if got := n.String(); got != tc.want {
			t.Errorf("ToTree(%+v):\n got %s\nwant %s", tc.input, got, tc.want)
		}
	}

	// Absent members keep the values set by the instantiator.
	got, err := bind.To[Limits](p, tree.NewObject().Set("Min", tree.Int64(3)))
	if err != nil {
		t.Fatalf("To: unexpected error: %v", err)
	}
	if diff := cmp.Diff(got, Limits{Max: 10, Min: 3}); diff != "" {
		t.Errorf("To (-got, +want):\n%s", diff)
	}
}

func TestOmission(t *testing.T) {
	type opts struct {
		A *int            `bind:"a,omitnull"`
		B []int           `bind:"b,omitempty"`
		C int             `bind:"c,omitdefault"`
		D map[string]int  `bind:"d"`
		E *int            `bind:"e,always"`
		F map[string]*int `bind:"f"`
	}
	v := opts{B: []int{}, D: map[string]int{}, F: map[string]*int{"x": nil}}

	plain := newProcessor(t, bind.NewBuilder())
	n, err := plain.ToTree(v)
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	if got, want := n.String(), `{"d":{},"e":null,"f":{"x":null}}`; got != want {
		t.Errorf("Tag options:\n got %s\nwant %s", got, want)
	}

	all := newProcessor(t, bind.NewBuilder().IgnoreNulls(true).IgnoreEmptyObjects(true))
	n, err = all.ToTree(v)
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	// The map "f" is empty once its null entry is omitted.
	if got, want := n.String(), `{"e":null}`; got != want {
		t.Errorf("Processor options:\n got %s\nwant %s", got, want)
	}

	// Array elements are never omitted.
	n, err = all.ToTree([]*int{nil, nil})
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	if got, want := n.String(), `[null,null]`; got != want {
		t.Errorf("Array elements: got %s, want %s", got, want)
	}
}

func TestEnums(t *testing.T) {
	insensitive := newProcessor(t, bind.NewBuilder().RegisterEnum(Red, Green))
	sensitive := newProcessor(t, bind.NewBuilder().RegisterEnum(Red, Green).CaseSensitiveEnums(true))

	got, err := bind.To[Color](insensitive, tree.String("red"))
	if err != nil || got != Red {
		t.Errorf(`Decode "red" (insensitive): got %v, %v; want RED`, got, err)
	}
	if _, err := bind.To[Color](sensitive, tree.String("red")); !errors.Is(err, errs.ErrEnumExpected) {
		t.Errorf(`Decode "red" (sensitive): got %v, want EnumExpected`, err)
	}
	if got, err := bind.To[Color](sensitive, tree.String("GREEN")); err != nil || got != Green {
		t.Errorf(`Decode "GREEN" (sensitive): got %v, %v; want GREEN`, got, err)
	}

	for _, n := range []tree.Node{tree.String("blue"), tree.Int64(0), tree.Null(), tree.NewArray()} {
		if _, err := bind.To[Color](insensitive, n); !errors.Is(err, errs.ErrEnumExpected) {
			t.Errorf("Decode %v: got %v, want EnumExpected", n, err)
		}
	}

	n, err := insensitive.ToTree(Green)
	if err != nil || n.String() != `"GREEN"` {
		t.Errorf("Encode Green: got %v, %v", n, err)
	}
	if _, err := insensitive.ToTree(Color(9)); !errors.Is(err, errs.ErrEnumExpected) {
		t.Errorf("Encode Color(9): got %v, want EnumExpected", err)
	}
}

// Level is an enumeration of its text.
type Level int

func (v Level) MarshalText() ([]byte, error) {
	return []byte([]string{"low", "high"}[v]), nil
}

func (v *Level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*v = 0
	case "high":
		*v = 1
	default:
		return fmt.Errorf("unknown level %q", text)
	}
	return nil
}

func TestTextEnums(t *testing.T) {
	n, err := bind.Default.ToTree(Level(1))
	if err != nil || n.String() != `"high"` {
		t.Fatalf("Encode Level(1): got %v, %v", n, err)
	}
	if got, err := bind.To[Level](bind.Default, tree.String("low")); err != nil || got != 0 {
		t.Errorf(`Decode "low": got %v, %v`, got, err)
	}
	for _, n := range []tree.Node{tree.String("medium"), tree.Int64(1)} {
		if _, err := bind.To[Level](bind.Default, n); !errors.Is(err, errs.ErrEnumExpected) {
			t.Errorf("Decode %v: got %v, want EnumExpected", n, err)
		}
	}

	// Without default processors, the underlying integer is bound.
	raw := newProcessor(t, bind.NewBuilder().EnableDefaultTypeProcessors(false))
	if n, err := raw.ToTree(Level(1)); err != nil || n.String() != "1" {
		t.Errorf("Encode without defaults: got %v, %v; want 1", n, err)
	}
}

func TestNumericNarrowing(t *testing.T) {
	type tiny struct{ B int8 }

	_, err := bind.To[tiny](bind.Default, tree.NewObject().Set("B", tree.Int64(300)))
	if !errors.Is(err, errs.ErrNumericOverflow) {
		t.Fatalf("Decode 300: got %v, want NumericOverflow", err)
	}
	var e *errs.Error
	if !errors.As(err, &e) {
		t.Fatalf("Error %v is not an *errs.Error", err)
	}
	if e.Key != "B" || e.Type != reflect.TypeFor[int8]() {
		t.Errorf("Error: got key %q type %v, want key B type int8", e.Key, e.Type)
	}

	got, err := bind.To[tiny](bind.Default, tree.NewObject().Set("B", tree.Int64(120)))
	if err != nil || got.B != 120 {
		t.Fatalf("Decode 120: got %+v, %v", got, err)
	}
	n, err := bind.Default.ToTree(got)
	if err != nil || n.String() != `{"B":120}` {
		t.Errorf("Encode: got %v, %v", n, err)
	}

	if _, err := bind.To[uint8](bind.Default, tree.Int64(-1)); !errors.Is(err, errs.ErrNumericOverflow) {
		t.Errorf("Decode -1 into uint8: got %v, want NumericOverflow", err)
	}
}

func TestErrorPath(t *testing.T) {
	n := tree.NewObject().Set("Home", tree.NewObject().Set("Zip", tree.String("nope")))

	_, err := bind.To[Record](bind.Default, n)
	var e *errs.Error
	if !errors.As(err, &e) {
		t.Fatalf("Decode: got %v, want *errs.Error", err)
	}
	if diff := cmp.Diff(e.Path, []string{"Home", "Zip"}); diff != "" {
		t.Errorf("Error path (-got, +want):\n%s", diff)
	}
	if e.Key != "Zip" || !errors.Is(err, errs.ErrTypeMismatch) {
		t.Errorf("Decode: got %v (key %q), want TypeMismatch at Zip", err, e.Key)
	}

	n.Remove("Home")
	n.Set("Tags", tree.NewArray(tree.String("a"), tree.NewObject()))
	_, err = bind.To[Record](bind.Default, n)
	if !errors.As(err, &e) || e.PathString() != "Tags[1]" {
		t.Errorf("Decode: got %v, want error at Tags[1]", err)
	}
}

func TestNulls(t *testing.T) {
	type target struct {
		P *int
		S []string
		M map[string]int
		I any
	}
	n := tree.NewObject().Set("P", nil).Set("S", nil).Set("M", nil).Set("I", nil)
	got, err := bind.To[target](bind.Default, n)
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	if diff := cmp.Diff(got, target{}); diff != "" {
		t.Errorf("Decode nulls (-got, +want):\n%s", diff)
	}

	type strict struct{ N int }
	if _, err := bind.To[strict](bind.Default, tree.NewObject().Set("N", nil)); !errors.Is(err, errs.ErrTypeMismatch) {
		t.Errorf("Decode null into int: got %v, want TypeMismatch", err)
	}
	if _, err := bind.To[strict](bind.Default, tree.NewArray()); !errors.Is(err, errs.ErrTypeMismatch) {
		t.Errorf("Decode array into struct: got %v, want TypeMismatch", err)
	}
	if _, err := bind.To[[]int](bind.Default, tree.NewObject()); !errors.Is(err, errs.ErrTypeMismatch) {
		t.Errorf("Decode object into slice: got %v, want TypeMismatch", err)
	}
	if _, err := bind.To[[2]int](bind.Default, tree.NewArray(tree.Int64(1))); !errors.Is(err, errs.ErrTypeMismatch) {
		t.Errorf("Decode short array: got %v, want TypeMismatch", err)
	}
}

func TestNaturalValues(t *testing.T) {
	n := tree.NewObject().
		Set("a", tree.NewArray(tree.Int64(1), tree.String("x"), tree.Null())).
		Set("b", tree.Bool(true))
	got, err := bind.Default.FromTree(n, reflect.TypeFor[any]())
	if err != nil {
		t.Fatalf("FromTree: unexpected error: %v", err)
	}
	want := map[string]any{"a": []any{int64(1), "x", nil}, "b": true}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("FromTree any (-got, +want):\n%s", diff)
	}

	if _, err := bind.Default.FromTree(n, reflect.TypeFor[fmt.Stringer]()); !errors.Is(err, errs.ErrInitializationFailure) {
		t.Errorf("FromTree into interface: got %v, want InitializationFailure", err)
	}
}

type Point struct{ X, Y int }

type Shape struct {
	Origin Point
	Corner *Point
}

func TestCustomProcessor(t *testing.T) {
	var toCalls, fromCalls int
	proc := bind.Funcs[Point]{
		To: func(p Point) (tree.Node, error) {
			toCalls++
			return tree.String(fmt.Sprintf("%d,%d", p.X, p.Y)), nil
		},
		From: func(n tree.Node) (Point, error) {
			fromCalls++
			p, err := tree.AsPrimitive(n)
			if err != nil {
				return Point{}, err
			}
			s, err := p.AsString()
			if err != nil {
				return Point{}, err
			}
			var out Point
			if _, err := fmt.Sscanf(s, "%d,%d", &out.X, &out.Y); err != nil {
				return Point{}, err
			}
			return out, nil
		},
	}
	b := bind.NewBuilder().Register(reflect.TypeFor[Point](), proc)
	if !b.Has(reflect.TypeFor[Point]()) {
		t.Error("Builder.Has: got false, want true")
	}
	p := newProcessor(t, b)

	input := Shape{Origin: Point{1, 2}, Corner: &Point{3, 4}}
	n, err := p.ToTree(input)
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	if got, want := n.String(), `{"Origin":"1,2","Corner":"3,4"}`; got != want {
		t.Errorf("ToTree:\n got %s\nwant %s", got, want)
	}
	got, err := bind.To[Shape](p, n)
	if err != nil {
		t.Fatalf("To: unexpected error: %v", err)
	}
	if diff := cmp.Diff(got, input); diff != "" {
		t.Errorf("To (-got, +want):\n%s", diff)
	}
	if toCalls != 2 || fromCalls != 2 {
		t.Errorf("Processor calls: to=%d from=%d, want 2, 2", toCalls, fromCalls)
	}

	// A failing processor is reported as a ProcessorFailure.
	if _, err := bind.To[Shape](p, tree.NewObject().Set("Origin", tree.String("bogus"))); !errors.Is(err, errs.ErrProcessorFailure) {
		t.Errorf("Bad input: got %v, want ProcessorFailure", err)
	}

	// Later changes to the builder do not affect a built processor.
	b.Unregister(reflect.TypeFor[Point]())
	if b.Has(reflect.TypeFor[Point]()) || !p.HasProcessor(reflect.TypeFor[Point]()) {
		t.Error("Unregister affected the built processor")
	}
}

type Money struct{ Cents int }

type Order struct {
	Money
	ID int
}

type Link struct {
	url.URL
	Title string
}

func TestEmbeddedProcessor(t *testing.T) {
	dollars := bind.Funcs[Money]{
		To: func(m Money) (tree.Node, error) { return tree.String(fmt.Sprintf("$%d", m.Cents)), nil },
		From: func(n tree.Node) (Money, error) {
			var m Money
			p, err := tree.AsPrimitive(n)
			if err != nil {
				return m, err
			}
			s, err := p.AsString()
			if err != nil {
				return m, err
			}
			_, err = fmt.Sscanf(s, "$%d", &m.Cents)
			return m, err
		},
	}
	p := newProcessor(t, bind.NewBuilder().Register(reflect.TypeFor[Money](), dollars))

	in := Order{Money: Money{5}, ID: 1}
	n, err := p.ToTree(in)
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	if got, want := n.String(), `{"Money":"$5","ID":1}`; got != want {
		t.Errorf("ToTree:\n got %s\nwant %s", got, want)
	}
	out, err := bind.To[Order](p, n)
	if err != nil {
		t.Fatalf("To: unexpected error: %v", err)
	}
	if diff := cmp.Diff(out, in); diff != "" {
		t.Errorf("To (-got, +want):\n%s", diff)
	}

	// Without a processor, the embedded fields are promoted.
	n, err = bind.Default.ToTree(in)
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	if got, want := n.String(), `{"Cents":5,"ID":1}`; got != want {
		t.Errorf("ToTree default:\n got %s\nwant %s", got, want)
	}

	// Built-in processors apply to embedded types too.
	u, err := url.Parse("https://example.com/a?b=c")
	if err != nil {
		t.Fatalf("Parse URL: %v", err)
	}
	link := Link{URL: *u, Title: "home"}
	n, err = bind.Default.ToTree(link)
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	if got, want := n.String(), `{"URL":"https://example.com/a?b=c","Title":"home"}`; got != want {
		t.Errorf("ToTree link:\n got %s\nwant %s", got, want)
	}
	back, err := bind.To[Link](bind.Default, n)
	if err != nil {
		t.Fatalf("To: unexpected error: %v", err)
	}
	if back.String() != u.String() || back.Title != "home" {
		t.Errorf("To link: got %q, %q", back.String(), back.Title)
	}
}

func TestProcessorErrors(t *testing.T) {
	var bare, wrapped bind.Funcs[Money]
	bare.From = func(tree.Node) (Money, error) {
		return Money{}, errs.TypeMismatch("no cents")
	}
	wrapped.From = func(tree.Node) (Money, error) {
		return Money{}, fmt.Errorf("parse amount: %w", errs.TypeMismatch("no cents"))
	}

	p := newProcessor(t, bind.NewBuilder().Register(reflect.TypeFor[Money](), bare))
	_, err := bind.To[Money](p, tree.String("x"))
	if !errors.Is(err, errs.ErrTypeMismatch) || errors.Is(err, errs.ErrProcessorFailure) {
		t.Errorf("Bare error: got %v, want TypeMismatch only", err)
	}

	p = newProcessor(t, bind.NewBuilder().Register(reflect.TypeFor[Money](), wrapped))
	_, err = bind.To[Money](p, tree.String("x"))
	if !errors.Is(err, errs.ErrProcessorFailure) {
		t.Errorf("Wrapped error: got %v, want ProcessorFailure", err)
	}
	if !errors.Is(err, errs.ErrTypeMismatch) {
		t.Errorf("Wrapped error: got %v, want it to wrap TypeMismatch", err)
	}
	if err == nil || !strings.Contains(err.Error(), "parse amount: ") {
		t.Errorf("Wrapped error lost its context: %v", err)
	}
}

func TestProcessorPrecedence(t *testing.T) {
	stamp := bind.Funcs[time.Time]{
		To:   func(time.Time) (tree.Node, error) { return tree.String("custom"), nil },
		From: func(tree.Node) (time.Time, error) { panic("boom") },
	}
	p := newProcessor(t, bind.NewBuilder().Register(reflect.TypeFor[time.Time](), stamp))
	n, err := p.ToTree(time.Unix(0, 0))
	if err != nil || n.String() != `"custom"` {
		t.Errorf("Custom over built-in: got %v, %v", n, err)
	}
	if _, err := bind.To[time.Time](p, tree.String("x")); !errors.Is(err, errs.ErrProcessorFailure) {
		t.Errorf("Panicking processor: got %v, want ProcessorFailure", err)
	}

	if _, err := bind.NewBuilder().
		Register(reflect.TypeFor[Point](), bind.Funcs[Point]{}).
		Register(reflect.TypeFor[Point](), bind.Funcs[Point]{}).
		Build(); err == nil {
		t.Error("Duplicate registration: got nil error")
	}
	mtest.MustPanic(t, func() { bind.NewBuilder().RegisterEnum().MustBuild() })
}

func TestBuiltinProcessors(t *testing.T) {
	when := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	millis := newProcessor(t, bind.NewBuilder().DefaultOptions(bind.DefaultOptions{Time: bind.TimeUnixMilli}))
	n, err := millis.ToTree(when)
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	if got, want := n.String(), fmt.Sprint(when.UnixMilli()); got != want {
		t.Errorf("Time as millis: got %s, want %s", got, want)
	}
	// Decoding accepts either representation.
	for _, in := range []tree.Node{n, tree.String(when.Format(time.RFC3339))} {
		got, err := bind.To[time.Time](bind.Default, in)
		if err != nil || !got.Equal(when) {
			t.Errorf("Decode %v: got %v, %v; want %v", in, got, err, when)
		}
	}

	n, err = bind.Default.ToTree(decimal.RequireFromString("1.50"))
	if err != nil || n.(tree.Primitive).Kind() != tree.KindBigDecimal {
		t.Errorf("Decimal: got %v, %v", n, err)
	}
	if d, err := bind.To[time.Duration](bind.Default, tree.String("1m30s")); err != nil || d != 90*time.Second {
		t.Errorf("Duration: got %v, %v", d, err)
	}
	if _, err := bind.To[uuid.UUID](bind.Default, tree.NewArray(tree.Int64(1))); !errors.Is(err, errs.ErrTypeMismatch) {
		t.Errorf("Short uuid array: got %v, want TypeMismatch", err)
	}
}

type chain struct {
	Next *chain
}

func TestRecursionLimit(t *testing.T) {
	var head *chain
	for range 50 {
		head = &chain{Next: head}
	}
	p := newProcessor(t, bind.NewBuilder().MaxDepth(20))
	n, err := p.ToTree(head)
	if !errors.Is(err, errs.ErrRecursionLimitExceeded) {
		t.Fatalf("ToTree: got %v, want RecursionLimitExceeded", err)
	}

	n, err = bind.Default.ToTree(head)
	if err != nil {
		t.Fatalf("ToTree: unexpected error: %v", err)
	}
	if _, err := bind.To[*chain](p, n); !errors.Is(err, errs.ErrRecursionLimitExceeded) {
		t.Errorf("Decode: got %v, want RecursionLimitExceeded", err)
	}
	if !strings.HasPrefix(n.String(), `{"Next":{"Next":`) {
		t.Errorf("ToTree: got %s", n)
	}

	// Untyped targets are bounded the same way.
	deep := tree.NewArray()
	for range 2000 {
		deep = tree.NewArray(deep)
	}
	if _, err := bind.To[[]any](bind.Default, deep); !errors.Is(err, errs.ErrRecursionLimitExceeded) {
		t.Errorf("Decode []any: got %v, want RecursionLimitExceeded", err)
	}
	if _, err := bind.To[any](p, n); !errors.Is(err, errs.ErrRecursionLimitExceeded) {
		t.Errorf("Decode any: got %v, want RecursionLimitExceeded", err)
	}
	shallow, err := bind.To[[]any](p, tree.NewArray(tree.NewArray(tree.Int32(1))))
	if err != nil {
		t.Fatalf("Decode []any: unexpected error: %v", err)
	}
	if diff := cmp.Diff(shallow, []any{[]any{int32(1)}}); diff != "" {
		t.Errorf("Decode []any (-got, +want):\n%s", diff)
	}
}

func TestDecodeTarget(t *testing.T) {
	var x int
	if err := bind.Default.Decode(tree.Int64(5), x); !errors.Is(err, errs.ErrTypeMismatch) {
		t.Errorf("Decode non-pointer: got %v, want TypeMismatch", err)
	}
	if err := bind.Default.Decode(tree.Int64(5), &x); err != nil || x != 5 {
		t.Errorf("Decode: got %d, %v; want 5", x, err)
	}
	if _, err := bind.Default.ToTree(make(chan int)); !errors.Is(err, errs.ErrTypeMismatch) {
		t.Errorf("ToTree chan: got %v, want TypeMismatch", err)
	}
	if _, err := bind.Default.FromTree(tree.Null(), reflect.TypeFor[func()]()); !errors.Is(err, errs.ErrInitializationFailure) {
		t.Errorf("FromTree func: got %v, want InitializationFailure", err)
	}
}
