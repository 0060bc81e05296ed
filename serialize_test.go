package pykachu

import (
	"errors"
	"testing"
	"time"

	"github.com/creachadair/mds/mapset"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"

	"github.com/GrayHat12/pykachu/ir"
)

func TestSerialize(t *testing.T) {
	type testCase struct {
		name string
		in   any
		want ir.Value
	}
	ok := func(name string, in any, want ir.Value) testCase {
		return testCase{name, in, want}
	}

	ts := time.Date(2024, 5, 17, 8, 30, 0, 123456789, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	four := int64(4)

	tests := []testCase{
		ok("nil", nil, ir.Null{}),
		ok("bool", true, ir.Bool(true)),
		ok("int", 42, ir.Int(42)),
		ok("negative int", int8(-3), ir.Int(-3)),
		ok("uint", uint8(7), ir.Uint(7)),
		ok("float", 2.5, ir.Float(2.5)),
		ok("string", "foobar", ir.String("foobar")),
		ok("named uint kind", port(8080), ir.Uint(8080)),
		ok("named string kind", hostname("example.com"), ir.String("example.com")),

		ok("pointer", &four, ir.Int(4)),
		ok("nil pointer", (*int64)(nil), ir.Null{}),

		ok("slice", []int{1, 2, 3}, ir.Sequence{ir.Int(1), ir.Int(2), ir.Int(3)}),
		ok("nil slice", []string(nil), ir.Sequence{}),
		ok("array", [2]string{"a", "b"}, ir.Sequence{ir.String("a"), ir.String("b")}),
		ok("interface elements", []any{1, "a", nil}, ir.Sequence{ir.Int(1), ir.String("a"), ir.Null{}}),

		ok("struct", Simple{4, true}, mapOf("A", ir.Int(4), "B", ir.Bool(true))),
		ok("nested struct", Nested{"x", Simple{1, false}},
			mapOf("A", ir.String("x"), "B", mapOf("A", ir.Int(1), "B", ir.Bool(false)))),
		ok("embedded struct", Embedded{Simple{1, true}, "c"},
			mapOf("A", ir.Int(1), "B", ir.Bool(true), "C", ir.String("c"))),
		ok("embedded shadowed field", EmbeddedShadow{Simple{1, true}, 9},
			mapOf("A", ir.Int(1), "B", ir.Int(9))),
		ok("embedded nil pointer", EmbeddedP{nil, "c"},
			mapOf("A", ir.Int(0), "B", ir.Bool(false), "C", ir.String("c"))),
		ok("tagged struct", Server{Host: "h", Port: 1, Debug: true},
			mapOf("host", ir.String("h"), "port", ir.Int(1))),

		ok("string-keyed map", map[string]int{"b": 2, "a": 1},
			mapOf("a", ir.Int(1), "b", ir.Int(2))),
		ok("int-keyed map", map[int]string{2: "b", 10: "c", 1: "a"},
			mapOf("1", ir.String("a"), "2", ir.String("b"), "10", ir.String("c"))),
		ok("set", mapset.New(3, 1, 2), ir.Sequence{ir.Int(1), ir.Int(2), ir.Int(3)}),

		ok("bytes", []byte{0xde, 0xad}, ir.String("dead")),
		ok("time", ts, ir.String("2024-05-17T08:30:00.123456789Z")),
		ok("duration", 90*time.Second, ir.String("1m30s")),
		ok("uuid", id, ir.String("6ba7b810-9dad-11d1-80b4-00c04fd430c8")),

		ok("already IR scalar", ir.Int(5), ir.Int(5)),
		ok("already IR mapping", mapOf("k", ir.Int(1)), mapOf("k", ir.Int(1))),
		ok("IR inside native slice", []ir.Value{ir.Null{}, ir.Bool(true)},
			ir.Sequence{ir.Null{}, ir.Bool(true)}),
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Serialize(tc.in)
			if err != nil {
				t.Fatalf("Serialize(%#v): %v", tc.in, err)
			}
			if diff := cmp.Diff(got, tc.want, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Serialize(%#v) wrong output (-got+want):\n%s", tc.in, diff)
			}
		})
	}
}

func TestSerializeFieldOrder(t *testing.T) {
	u := User{ID: 1, Name: "gray", Friends: []int64{2, 3}}
	got, err := Serialize(u)
	if err != nil {
		t.Fatalf("Serialize(%#v): %v", u, err)
	}
	m, ok := got.(*ir.Mapping)
	if !ok {
		t.Fatalf("Serialize(%#v) = %#v, want a mapping", u, got)
	}
	want := []string{"id", "name", "signup_ts", "friends"}
	if diff := cmp.Diff(m.Keys(), want); diff != "" {
		t.Errorf("wrong key order (-got+want):\n%s", diff)
	}
}

func TestSerializeUnsupported(t *testing.T) {
	tests := []any{
		make(chan int),
		func() {},
		complex(1, 2),
		struct{ C chan int }{make(chan int)},
		[]func(){nil},
		map[complex128]int{},
	}
	for _, in := range tests {
		_, err := Serialize(in)
		if err == nil {
			t.Errorf("Serialize(%T) did not error, want UnsupportedTypeError", in)
			continue
		}
		var ute UnsupportedTypeError
		if !errors.As(err, &ute) {
			t.Errorf("Serialize(%T) returned %v (%T), want UnsupportedTypeError", in, err, err)
		}
	}
}

func TestSerializeDuplicateKey(t *testing.T) {
	type dup struct {
		A int `pyka:"x"`
		B int `pyka:"x"`
	}
	if _, err := Serialize(dup{}); err == nil {
		t.Error("Serialize accepted a struct with duplicate mapping keys")
	}
}
