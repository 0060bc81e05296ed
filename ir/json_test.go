package ir

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJSONEncode(t *testing.T) {
	m := NewMapping()
	m.Set("z", Int(1))
	m.Set("a", Sequence{Null{}, Bool(true), Float(2.5)})
	m.Set("s", String("he\"llo"))
	m.Set("u", Uint(math.MaxUint64))

	got, err := EncodeJSON(m)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	want := `{"z":1,"a":[null,true,2.5],"s":"he\"llo","u":18446744073709551615}`
	if string(got) != want {
		t.Errorf("EncodeJSON = %s, want %s", got, want)
	}
}

func TestJSONEncodeNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := EncodeJSON(Float(f)); err == nil {
			t.Errorf("EncodeJSON(%v) did not error", f)
		}
	}
}

func TestJSONDecode(t *testing.T) {
	type testCase struct {
		name string
		in   string
		want Value
	}
	tests := []testCase{
		{"null", `null`, Null{}},
		{"bool", `true`, Bool(true)},
		{"int", `-42`, Int(-42)},
		{"big uint", `18446744073709551615`, Uint(math.MaxUint64)},
		{"float", `2.5`, Float(2.5)},
		{"string", `"x"`, String("x")},
		{"sequence", `[1,"a",null]`, Sequence{Int(1), String("a"), Null{}}},
		{"empty object", `{}`, NewMapping()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeJSON([]byte(tc.in))
			if err != nil {
				t.Fatalf("DecodeJSON(%s): %v", tc.in, err)
			}
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("DecodeJSON(%s) wrong value (-got+want):\n%s", tc.in, diff)
			}
		})
	}
}

func TestJSONDecodeKeyOrder(t *testing.T) {
	got, err := DecodeJSON([]byte(`{"z":1,"a":{"y":2,"b":3}}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	m, ok := got.(*Mapping)
	if !ok {
		t.Fatalf("DecodeJSON = %#v, want a mapping", got)
	}
	if diff := cmp.Diff(m.Keys(), []string{"z", "a"}); diff != "" {
		t.Errorf("wrong outer key order (-got+want):\n%s", diff)
	}
	inner, _ := m.Get("a")
	if diff := cmp.Diff(inner.(*Mapping).Keys(), []string{"y", "b"}); diff != "" {
		t.Errorf("wrong inner key order (-got+want):\n%s", diff)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	m := NewMapping()
	m.Set("z", Sequence{Int(1), Uint(math.MaxUint64), Float(2.5)})
	m.Set("a", String("x"))
	m.Set("n", Null{})

	data, err := EncodeJSON(m)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	got, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON(%s): %v", data, err)
	}
	if !Equal(got, m) {
		t.Errorf("round trip changed the value: %s", data)
	}
}

func TestJSONDecodeErrors(t *testing.T) {
	for _, in := range []string{``, `{`, `[1,]`, `1 2`, `{"a":1}extra`} {
		if _, err := DecodeJSON([]byte(in)); err == nil {
			t.Errorf("DecodeJSON(%q) did not error", in)
		}
	}
}
