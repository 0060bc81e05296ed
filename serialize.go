package pykachu

import (
	"reflect"
	"slices"

	"github.com/GrayHat12/pykachu/ir"
)

// Serialize converts v to its canonical IR.
//
// Serialize traverses v recursively. If the runtime type of an
// encountered value has a registered strategy, its ToIR produces that
// subtree and no further processing happens. An input that is already
// an IR value is returned unchanged.
//
// Otherwise, Serialize uses the following shape-dependent rules:
//
// Nil values, nil pointers and nil interfaces encode as the null
// scalar. Non-nil pointers encode as the value pointed to.
//
// Struct values encode as a mapping. Each exported field is serialized
// in declaration order under its field name, or the name given in its
// `pyka` struct tag; `pyka:"-"` skips a field. Embedded struct fields
// are encoded as if their inner exported fields were fields in the
// outer struct, subject to the usual Go visibility rules.
//
// Slice and array values encode as a sequence, order preserved. Nil
// slices encode the same as an empty slice.
//
// map[K]struct{} values encode as a sequence of the keys, ordered by
// key. Other map values encode as a mapping from the key's canonical
// text form, ordered by key; the key's kind must be representable as a
// scalar.
//
// Bool, integer, float and string kinds encode as the corresponding
// scalar.
//
// Anything else (channels, funcs, complex numbers) has no IR shape
// and causes Serialize to return an [UnsupportedTypeError]; unsupported
// values are never coerced to null or dropped.
func (e *Engine) Serialize(v any) (ir.Value, error) {
	if v == nil {
		return ir.Null{}, nil
	}
	if iv, ok := v.(ir.Value); ok {
		return iv, nil
	}
	return e.serialize(reflect.ValueOf(v))
}

func (e *Engine) serialize(v reflect.Value) (ir.Value, error) {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ir.Null{}, nil
		}
		v = v.Elem()
	}
	t := v.Type()

	if s, ok := e.reg.Lookup(t); ok {
		return s.ToIR(v.Interface())
	}
	if iv, ok := v.Interface().(ir.Value); ok {
		return iv, nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return ir.Null{}, nil
		}
		return e.serialize(v.Elem())

	case reflect.Struct:
		si, err := e.structInfo(t)
		if err != nil {
			return nil, typeErr(t, "getting struct info: %w", err)
		}
		m := ir.NewMapping()
		for _, f := range si.StructFields {
			fv, err := e.serialize(f.GetWithZero(v))
			if err != nil {
				return nil, err
			}
			m.Set(f.Name, fv)
		}
		return m, nil

	case reflect.Slice, reflect.Array:
		seq := make(ir.Sequence, v.Len())
		for i := range v.Len() {
			elem, err := e.serialize(v.Index(i))
			if err != nil {
				return nil, err
			}
			seq[i] = elem
		}
		return seq, nil

	case reflect.Map:
		return e.serializeMap(v)

	default:
		if scalarKinds.Has(t.Kind()) {
			return scalarOf(v)
		}
		return nil, typeErr(t, "no IR mapping for type")
	}
}

func (e *Engine) serializeMap(v reflect.Value) (ir.Value, error) {
	t := v.Type()

	if t.Elem() == emptyStructType {
		// A map[K]struct{} is a set: a collection of keys, encoded as
		// a sequence ordered by key.
		if !scalarKinds.Has(t.Key().Kind()) {
			return nil, typeErr(t, "invalid set element type %s", t.Key())
		}
		ks := v.MapKeys()
		slices.SortFunc(ks, mapKeyCmp(t.Key()))
		seq := make(ir.Sequence, 0, len(ks))
		for _, k := range ks {
			elem, err := e.serialize(k)
			if err != nil {
				return nil, err
			}
			seq = append(seq, elem)
		}
		return seq, nil
	}

	if !scalarKinds.Has(t.Key().Kind()) {
		return nil, typeErr(t, "invalid map key type %s", t.Key())
	}
	ks := v.MapKeys()
	slices.SortFunc(ks, mapKeyCmp(t.Key()))
	m := ir.NewMapping()
	for _, k := range ks {
		mv, err := e.serialize(v.MapIndex(k))
		if err != nil {
			return nil, err
		}
		m.Set(formatMapKey(k), mv)
	}
	return m, nil
}
