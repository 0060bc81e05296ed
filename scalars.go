package pykachu

import (
	"cmp"
	"math"
	"reflect"
	"strconv"

	"github.com/creachadair/mds/mapset"
	"github.com/spf13/cast"

	"github.com/GrayHat12/pykachu/ir"
)

// scalarKinds is the set of reflect.Kinds representable as an IR
// scalar. The same kinds are usable as map keys, which the IR stores as
// canonical text.
var scalarKinds = mapset.New(
	reflect.Bool,
	reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
	reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
	reflect.Float32, reflect.Float64,
	reflect.String,
)

// scalarOf returns the IR scalar for a value of scalar kind.
func scalarOf(v reflect.Value) (ir.Value, error) {
	switch v.Kind() {
	case reflect.Bool:
		return ir.Bool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.Int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ir.Uint(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return ir.Float(v.Float()), nil
	case reflect.String:
		return ir.String(v.String()), nil
	}
	return nil, typeErr(v.Type(), "not a scalar kind")
}

// coerceScalar reconciles raw against a target of scalar kind. An exact
// instance passes through unchanged. Strict mode admits only lossless
// conversions between scalar representations; non-strict mode
// additionally tries best-effort coercion and falls back to returning
// raw unchanged.
func coerceScalar(t reflect.Type, raw any, strict bool) (any, error) {
	if raw != nil && reflect.TypeOf(raw) == t {
		return raw, nil
	}
	if v, ok := convertScalar(t, raw); ok {
		return v.Interface(), nil
	}
	if strict {
		return nil, mismatchErr(t, raw)
	}
	if v, ok := castScalar(t, raw); ok {
		return v.Interface(), nil
	}
	return raw, nil
}

func convertScalar(t reflect.Type, raw any) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.Bool:
		if b, ok := rawBool(raw); ok {
			return reflect.ValueOf(b).Convert(t), true
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, ok := rawInt(raw); ok && !reflect.Zero(t).OverflowInt(i) {
			return reflect.ValueOf(i).Convert(t), true
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u, ok := rawUint(raw); ok && !reflect.Zero(t).OverflowUint(u) {
			return reflect.ValueOf(u).Convert(t), true
		}
	case reflect.Float32, reflect.Float64:
		if f, ok := rawFloat(raw); ok && !reflect.Zero(t).OverflowFloat(f) {
			return reflect.ValueOf(f).Convert(t), true
		}
	case reflect.String:
		if s, ok := rawString(raw); ok {
			return reflect.ValueOf(s).Convert(t), true
		}
	}
	return reflect.Value{}, false
}

func castScalar(t reflect.Type, raw any) (reflect.Value, bool) {
	v := unwrapScalar(raw)
	switch t.Kind() {
	case reflect.Bool:
		if b, err := cast.ToBoolE(v); err == nil {
			return reflect.ValueOf(b).Convert(t), true
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, err := cast.ToInt64E(v); err == nil && !reflect.Zero(t).OverflowInt(i) {
			return reflect.ValueOf(i).Convert(t), true
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u, err := cast.ToUint64E(v); err == nil && !reflect.Zero(t).OverflowUint(u) {
			return reflect.ValueOf(u).Convert(t), true
		}
	case reflect.Float32, reflect.Float64:
		if f, err := cast.ToFloat64E(v); err == nil && !reflect.Zero(t).OverflowFloat(f) {
			return reflect.ValueOf(f).Convert(t), true
		}
	case reflect.String:
		if s, err := cast.ToStringE(v); err == nil {
			return reflect.ValueOf(s).Convert(t), true
		}
	}
	return reflect.Value{}, false
}

// unwrapScalar strips an IR scalar down to its native Go value, for
// handing off to coercion helpers that don't know the IR.
func unwrapScalar(raw any) any {
	switch v := raw.(type) {
	case ir.Null:
		return nil
	case ir.Bool:
		return bool(v)
	case ir.Int:
		return int64(v)
	case ir.Uint:
		return uint64(v)
	case ir.Float:
		return float64(v)
	case ir.String:
		return string(v)
	}
	return raw
}

func rawBool(raw any) (bool, bool) {
	if b, ok := raw.(ir.Bool); ok {
		return bool(b), true
	}
	rv := reflect.ValueOf(raw)
	if rv.IsValid() && rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}

func rawInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case ir.Int:
		return int64(v), true
	case ir.Uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
		return 0, false
	}
	rv := reflect.ValueOf(raw)
	switch {
	case !rv.IsValid():
		return 0, false
	case rv.CanInt():
		return rv.Int(), true
	case rv.CanUint():
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u), true
		}
	}
	return 0, false
}

func rawUint(raw any) (uint64, bool) {
	switch v := raw.(type) {
	case ir.Uint:
		return uint64(v), true
	case ir.Int:
		if v >= 0 {
			return uint64(v), true
		}
		return 0, false
	}
	rv := reflect.ValueOf(raw)
	switch {
	case !rv.IsValid():
		return 0, false
	case rv.CanUint():
		return rv.Uint(), true
	case rv.CanInt():
		if i := rv.Int(); i >= 0 {
			return uint64(i), true
		}
	}
	return 0, false
}

func rawFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case ir.Float:
		return float64(v), true
	case ir.Int:
		return floatFromInt(int64(v))
	case ir.Uint:
		return floatFromUint(uint64(v))
	}
	rv := reflect.ValueOf(raw)
	switch {
	case !rv.IsValid():
		return 0, false
	case rv.CanFloat():
		return rv.Float(), true
	case rv.CanInt():
		return floatFromInt(rv.Int())
	case rv.CanUint():
		return floatFromUint(rv.Uint())
	}
	return 0, false
}

// floatFromInt converts i to float64 only when the conversion is
// exact. Magnitudes above 2^53 may round; the range guards keep the
// round-trip conversion itself in int64 range.
func floatFromInt(i int64) (float64, bool) {
	f := float64(i)
	if f >= -9223372036854775808 && f < 9223372036854775808 && int64(f) == i {
		return f, true
	}
	return 0, false
}

func floatFromUint(u uint64) (float64, bool) {
	f := float64(u)
	if f < 18446744073709551616 && uint64(f) == u {
		return f, true
	}
	return 0, false
}

func rawString(raw any) (string, bool) {
	if s, ok := raw.(ir.String); ok {
		return string(s), true
	}
	rv := reflect.ValueOf(raw)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// formatMapKey renders a map key of scalar kind as its canonical text
// form, the key representation IR mappings use.
func formatMapKey(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.String:
		return v.String()
	}
	panic("formatMapKey called on non-scalar kind")
}

// mapKeyParser returns a function that converts canonical key text back
// into values of the given map key type.
func mapKeyParser(t reflect.Type) func(string) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Bool:
		return func(s string) (reflect.Value, error) {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(b).Convert(t), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(s string) (reflect.Value, error) {
			i64, err := strconv.ParseInt(s, 10, int(t.Size())*8)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(i64).Convert(t), nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(s string) (reflect.Value, error) {
			u64, err := strconv.ParseUint(s, 10, int(t.Size())*8)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(u64).Convert(t), nil
		}
	case reflect.Float32, reflect.Float64:
		return func(s string) (reflect.Value, error) {
			f64, err := strconv.ParseFloat(s, int(t.Size())*8)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(f64).Convert(t), nil
		}
	case reflect.String:
		return func(s string) (reflect.Value, error) {
			return reflect.ValueOf(s).Convert(t), nil
		}
	default:
		panic("mapKeyParser called on type that can't be a map key")
	}
}

// mapKeyCmp returns a comparison function for the given map key type,
// used to order map entries deterministically.
func mapKeyCmp(t reflect.Type) func(a, b reflect.Value) int {
	switch t.Kind() {
	case reflect.Bool:
		return func(a, b reflect.Value) int {
			if a.Bool() == b.Bool() {
				return 0
			}
			if !a.Bool() {
				return -1
			}
			return 1
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(a, b reflect.Value) int {
			return cmp.Compare(a.Int(), b.Int())
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(a, b reflect.Value) int {
			return cmp.Compare(a.Uint(), b.Uint())
		}
	case reflect.Float32, reflect.Float64:
		return func(a, b reflect.Value) int {
			return cmp.Compare(a.Float(), b.Float())
		}
	case reflect.String:
		return func(a, b reflect.Value) int {
			return cmp.Compare(a.String(), b.String())
		}
	default:
		panic("invalid map key type")
	}
}
