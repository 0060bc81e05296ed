package pykachu

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/GrayHat12/pykachu/ir"
)

// Parse reconstructs a value of the target type from raw, which is
// typically already-decoded IR carrying no native type tags. Dispatch
// is driven by the declared target type, not by raw's runtime type.
//
// If the target type has a registered strategy, its FromIR produces the
// result. An input that is already an instance of the target type is
// returned unchanged. Otherwise:
//
// Pointer targets model the optional wrapper: a null or nil input
// yields a typed nil pointer ("no value"); any other input is parsed
// against the element type and wrapped.
//
// Slice and array targets require a sequence. Each member is parsed
// against the element type, order preserved; strictness applies per
// element, not all-or-nothing.
//
// map[K]struct{} targets are sets reconstructed from a sequence of
// keys. Other map targets require a mapping, with keys parsed from
// their canonical text form.
//
// Struct targets require a mapping. Each declared field is resolved in
// declaration order: present in the mapping → parsed recursively;
// absent with a `default=` tag → the default; otherwise strict mode
// fails with [MissingFieldError] and non-strict mode leaves the field
// at its zero value.
//
// Scalar-kind targets coerce per the scalar strategy rules.
//
// In strict mode a shape that cannot satisfy the target fails with
// [TypeMismatchError] and any failure in a subtree fails the whole
// call. In non-strict mode the offending input is passed through
// unchanged instead. The strict flag is threaded through every
// recursive call unchanged.
func (e *Engine) Parse(target reflect.Type, raw any, strict bool) (any, error) {
	if target == nil {
		return nil, fmt.Errorf("cannot parse into a nil type")
	}
	if s, ok := e.reg.Lookup(target); ok {
		return s.FromIR(target, raw, strict)
	}
	if raw != nil && reflect.TypeOf(raw) == target {
		return raw, nil
	}

	switch target.Kind() {
	case reflect.Pointer:
		return e.parsePointer(target, raw, strict)
	case reflect.Slice:
		return e.parseSlice(target, raw, strict)
	case reflect.Array:
		return e.parseArray(target, raw, strict)
	case reflect.Map:
		if target.Elem() == emptyStructType {
			return e.parseSet(target, raw, strict)
		}
		return e.parseMap(target, raw, strict)
	case reflect.Struct:
		return e.parseStruct(target, raw, strict)
	case reflect.Interface:
		return parseInterface(target, raw, strict)
	default:
		if scalarKinds.Has(target.Kind()) {
			return coerceScalar(target, raw, strict)
		}
		if strict {
			return nil, mismatchErr(target, raw)
		}
		return raw, nil
	}
}

func (e *Engine) parsePointer(t reflect.Type, raw any, strict bool) (any, error) {
	if isNull(raw) {
		return reflect.Zero(t).Interface(), nil
	}
	elem, err := e.Parse(t.Elem(), raw, strict)
	if err != nil {
		return nil, err
	}
	ev, ok := assignable(elem, t.Elem())
	if !ok {
		if strict {
			return nil, mismatchErr(t, raw)
		}
		return raw, nil
	}
	p := reflect.New(t.Elem())
	p.Elem().Set(ev)
	return p.Interface(), nil
}

func (e *Engine) parseSlice(t reflect.Type, raw any, strict bool) (any, error) {
	seq, ok := asSequence(raw)
	if !ok {
		if strict {
			return nil, mismatchErr(t, raw)
		}
		return raw, nil
	}
	out := reflect.MakeSlice(t, len(seq), len(seq))
	for i, item := range seq {
		pv, err := e.Parse(t.Elem(), item, strict)
		if err != nil {
			return nil, err
		}
		ev, ok := assignable(pv, t.Elem())
		if !ok {
			if strict {
				return nil, mismatchErr(t.Elem(), pv)
			}
			// A leniently-parsed element that isn't an Elem can't live
			// in this slice; pass the raw input through unchanged.
			return raw, nil
		}
		out.Index(i).Set(ev)
	}
	return out.Interface(), nil
}

func (e *Engine) parseArray(t reflect.Type, raw any, strict bool) (any, error) {
	seq, ok := asSequence(raw)
	if !ok || len(seq) != t.Len() {
		if strict {
			return nil, mismatchErr(t, raw)
		}
		return raw, nil
	}
	out := reflect.New(t).Elem()
	for i, item := range seq {
		pv, err := e.Parse(t.Elem(), item, strict)
		if err != nil {
			return nil, err
		}
		ev, ok := assignable(pv, t.Elem())
		if !ok {
			if strict {
				return nil, mismatchErr(t.Elem(), pv)
			}
			return raw, nil
		}
		out.Index(i).Set(ev)
	}
	return out.Interface(), nil
}

func (e *Engine) parseSet(t reflect.Type, raw any, strict bool) (any, error) {
	seq, ok := asSequence(raw)
	if !ok {
		if strict {
			return nil, mismatchErr(t, raw)
		}
		return raw, nil
	}
	out := reflect.MakeMapWithSize(t, len(seq))
	for _, item := range seq {
		pv, err := e.Parse(t.Key(), item, strict)
		if err != nil {
			return nil, err
		}
		kv, ok := assignable(pv, t.Key())
		if !ok {
			if strict {
				return nil, mismatchErr(t.Key(), pv)
			}
			return raw, nil
		}
		out.SetMapIndex(kv, reflect.ValueOf(struct{}{}))
	}
	return out.Interface(), nil
}

func (e *Engine) parseMap(t reflect.Type, raw any, strict bool) (any, error) {
	keys, get, ok := asMapping(raw)
	if !ok || !scalarKinds.Has(t.Key().Kind()) {
		if strict {
			return nil, mismatchErr(t, raw)
		}
		return raw, nil
	}
	keyParser := mapKeyParser(t.Key())
	out := reflect.MakeMapWithSize(t, len(keys))
	for _, k := range keys {
		kv, err := keyParser(k)
		if err != nil {
			if strict {
				return nil, TypeMismatchError{Value: k, Got: "string", Want: t.Key().String()}
			}
			return raw, nil
		}
		item, _ := get(k)
		pv, err := e.Parse(t.Elem(), item, strict)
		if err != nil {
			return nil, err
		}
		ev, ok := assignable(pv, t.Elem())
		if !ok {
			if strict {
				return nil, mismatchErr(t.Elem(), pv)
			}
			return raw, nil
		}
		out.SetMapIndex(kv, ev)
	}
	return out.Interface(), nil
}

func (e *Engine) parseStruct(t reflect.Type, raw any, strict bool) (any, error) {
	_, get, ok := asMapping(raw)
	if !ok {
		if strict {
			return nil, mismatchErr(t, raw)
		}
		return raw, nil
	}
	si, err := e.structInfo(t)
	if err != nil {
		return nil, typeErr(t, "getting struct info: %w", err)
	}
	out := reflect.New(t).Elem()
	for _, f := range si.StructFields {
		if item, ok := get(f.Name); ok {
			pv, err := e.Parse(f.Type, item, strict)
			if err != nil {
				return nil, err
			}
			ev, ok := assignable(pv, f.Type)
			if !ok {
				if strict {
					return nil, mismatchErr(f.Type, pv)
				}
				continue // leave the zero value
			}
			f.GetWithAlloc(out).Set(ev)
		} else if f.HasDefault {
			f.GetWithAlloc(out).Set(reflect.ValueOf(f.Default))
		} else if strict {
			return nil, MissingFieldError{Struct: si.Name, Field: f.Name}
		}
		// Non-strict: an absent field keeps the type's zero value.
	}
	return out.Interface(), nil
}

func parseInterface(t reflect.Type, raw any, strict bool) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if reflect.TypeOf(raw).AssignableTo(t) {
		return raw, nil
	}
	if strict {
		return nil, mismatchErr(t, raw)
	}
	return raw, nil
}

// isNull reports whether raw is the IR null scalar or a native absence
// marker.
func isNull(raw any) bool {
	if raw == nil {
		return true
	}
	if _, ok := raw.(ir.Null); ok {
		return true
	}
	rv := reflect.ValueOf(raw)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// assignable returns v as a reflect.Value assignable to t. A nil v is
// assignable to nilable kinds only.
func assignable(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, true
	}
	return reflect.Value{}, false
}

// asSequence views raw as an ordered list of members: an IR sequence or
// any native slice/array.
func asSequence(raw any) ([]any, bool) {
	switch s := raw.(type) {
	case ir.Sequence:
		out := make([]any, len(s))
		for i, v := range s {
			out[i] = v
		}
		return out, true
	case []any:
		return s, true
	}
	rv := reflect.ValueOf(raw)
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// asMapping views raw as keyed entries: an IR mapping (keys in
// insertion order) or a native map[string]any (keys sorted, since a Go
// map carries no order).
func asMapping(raw any) (keys []string, get func(string) (any, bool), ok bool) {
	switch m := raw.(type) {
	case *ir.Mapping:
		get = func(k string) (any, bool) {
			v, ok := m.Get(k)
			if !ok {
				return nil, false
			}
			return v, true
		}
		return m.Keys(), get, true
	case map[string]any:
		get = func(k string) (any, bool) {
			v, ok := m[k]
			return v, ok
		}
		return slices.Sorted(maps.Keys(m)), get, true
	}
	return nil, nil, false
}
