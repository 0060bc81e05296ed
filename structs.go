package pykachu

import (
	"fmt"
	"iter"
	"reflect"
	"strings"

	"github.com/GrayHat12/pykachu/ir"
)

// structField is the information about a struct field that needs to be
// serialized/parsed.
type structField struct {
	// Name is the mapping key for the field, the Go field name unless
	// renamed by a `pyka` tag.
	Name  string
	Index [][]int
	Type  reflect.Type

	// Default is the fallback value used when the field is absent from
	// an input mapping, declared with `pyka:",default=<text>"` and
	// resolved when the struct's shape is first examined.
	Default    any
	HasDefault bool
}

// GetWithZero loads the struct field from structVal. If loading
// requires traversing a nil pointer into an embedded struct,
// GetWithZero returns a non-settable zero value of the field.
func (f *structField) GetWithZero(structVal reflect.Value) reflect.Value {
	v := structVal
	for i, hop := range f.Index {
		if i > 0 {
			if v.IsNil() {
				return reflect.Zero(f.Type)
			}
			v = v.Elem()
		}
		v = v.FieldByIndex(hop)
	}
	return v
}

// GetWithAlloc loads the struct field from structVal. If loading
// requires traversing a nil pointer into an embedded struct,
// GetWithAlloc allocates zero values appropriately. The returned
// [reflect.Value] is settable.
func (f *structField) GetWithAlloc(structVal reflect.Value) reflect.Value {
	v := structVal
	for i, hop := range f.Index {
		if i > 0 {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.FieldByIndex(hop)
	}
	return v
}

// structInfo is the information about a struct relevant to
// serializing/parsing.
type structInfo struct {
	// Name is the struct's name, for use in diagnostics.
	Name string
	// Type is the struct's type, for use in diagnostics.
	Type reflect.Type

	// StructFields lists the eligible fields in declaration order,
	// embedded structs flattened, shadowed fields dropped.
	StructFields []*structField
}

func (e *Engine) structInfo(t reflect.Type) (*structInfo, error) {
	if si, ok := e.structs.Get(t); ok {
		return si, nil
	}
	si, err := e.buildStructInfo(t)
	if err != nil {
		return nil, err
	}
	e.structs.Put(t, si)
	return si, nil
}

func (e *Engine) buildStructInfo(t reflect.Type) (*structInfo, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct", t)
	}

	ret := &structInfo{
		Name: t.String(),
		Type: t,
	}

	type candidate struct {
		field   reflect.StructField
		name    string
		defText string
		hasDef  bool
	}
	var cands []candidate
	minDepth := map[string]int{}
	atMinDepth := map[string]int{}
	for field, err := range structFields(t, nil, map[reflect.Type]bool{}) {
		if err != nil {
			return nil, err
		}
		if !field.IsExported() {
			continue
		}
		name, skip, defText, hasDef := parseFieldTag(field)
		if skip {
			continue
		}
		d := len(field.Index)
		if cur, ok := minDepth[field.Name]; !ok || d < cur {
			minDepth[field.Name] = d
			atMinDepth[field.Name] = 1
		} else if d == cur {
			atMinDepth[field.Name]++
		}
		cands = append(cands, candidate{field, name, defText, hasDef})
	}

	seen := map[string]string{}
	for _, c := range cands {
		// Go promotion rules: the shallowest field with a given name
		// wins; a tie at the shallowest depth hides the name entirely.
		if len(c.field.Index) != minDepth[c.field.Name] || atMinDepth[c.field.Name] != 1 {
			continue
		}
		if prev, ok := seen[c.name]; ok {
			return nil, fmt.Errorf("duplicate mapping key %q in struct %s, used by %s and %s", c.name, ret.Name, prev, c.field.Name)
		}
		seen[c.name] = c.field.Name

		fieldInfo := &structField{
			Name:  c.name,
			Type:  c.field.Type,
			Index: allocSteps(t, c.field.Index),
		}
		if c.hasDef {
			dv, err := e.parseDefault(c.field.Type, c.defText)
			if err != nil {
				return nil, fmt.Errorf("field %s.%s: %w", ret.Name, c.field.Name, err)
			}
			fieldInfo.Default = dv
			fieldInfo.HasDefault = true
		}
		ret.StructFields = append(ret.StructFields, fieldInfo)
	}

	return ret, nil
}

// parseDefault resolves a `default=` tag's text into a value of the
// field's type, through the field's registered strategy or the scalar
// coercion table. Defaults on other field types are a construction
// error, which keeps default resolution from recursing back into
// struct shapes.
func (e *Engine) parseDefault(t reflect.Type, text string) (any, error) {
	raw := ir.String(text)
	var out any
	var err error
	if s, ok := e.reg.Lookup(t); ok {
		out, err = s.FromIR(t, raw, false)
	} else if scalarKinds.Has(t.Kind()) {
		out, err = coerceScalar(t, raw, false)
	} else {
		return nil, fmt.Errorf("default values are not supported for %s fields", t)
	}
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(out)
	if !rv.IsValid() || !rv.Type().AssignableTo(t) {
		return nil, fmt.Errorf("invalid default %q for field type %s", text, t)
	}
	return out, nil
}

// parseFieldTag returns the information contained in field's "pyka"
// struct tag: `pyka:"<name>,default=<text>"`, with `pyka:"-"` skipping
// the field in both directions.
func parseFieldTag(field reflect.StructField) (name string, skip bool, defText string, hasDefault bool) {
	name = field.Name
	tag := field.Tag.Get("pyka")
	if tag == "-" {
		return "", true, "", false
	}
	for i, part := range strings.Split(tag, ",") {
		if i == 0 {
			if part != "" {
				name = part
			}
			continue
		}
		if val, ok := strings.CutPrefix(part, "default="); ok {
			defText = val
			hasDefault = true
		}
	}
	return name, false, defText, hasDefault
}

// allocSteps partitions a multi-hop traversal of struct fields into
// segments that end at either the final value, or at a struct pointer
// that might be nil.
//
// This partition is used by [structField.GetWithZero] and
// [structField.GetWithAlloc] to load embedded struct fields that
// require traversing a nil pointer.
func allocSteps(t reflect.Type, idx []int) [][]int {
	var ret [][]int
	prev := 0
	t = t.Field(idx[0]).Type
	for i := 1; i < len(idx); i++ {
		if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
			// Hop through a struct pointer that might be nil, cut.
			ret = append(ret, idx[prev:i])
			prev = i
			t = t.Elem()
		}
		t = t.Field(idx[i]).Type
	}
	ret = append(ret, idx[prev:])
	return ret
}

// structFields iterates t's fields in declaration order, descending
// into embedded structs (by value or pointer) so their fields appear as
// if declared in the outer struct. Each yielded field's Index is its
// full path from t. seen holds the embedding path walked so far; a type
// that embeds itself, directly or through a chain, yields an error
// instead of descending forever.
func structFields(t reflect.Type, idx []int, seen map[reflect.Type]bool) iter.Seq2[reflect.StructField, error] {
	return func(yield func(reflect.StructField, error) bool) {
		if seen[t] {
			yield(reflect.StructField{}, fmt.Errorf("recursive embedding of %s", t))
			return
		}
		seen[t] = true
		defer delete(seen, t)
		for i := range t.NumField() {
			f := t.Field(i)
			idx = append(idx, i)
			if f.Anonymous {
				at := f.Type
				if at.Kind() == reflect.Pointer {
					at = at.Elem()
				}
				if at.Kind() == reflect.Struct {
					for af, err := range structFields(at, idx, seen) {
						if !yield(af, err) {
							return
						}
					}
					idx = idx[:len(idx)-1]
					continue
				}
			}
			f.Index = append([]int(nil), idx...)
			if !yield(f, nil) {
				return
			}
			idx = idx[:len(idx)-1]
		}
	}
}
