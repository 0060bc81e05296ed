package pykachu

import (
	"reflect"

	"github.com/GrayHat12/pykachu/ir"
)

// Engine is the dispatch engine. It resolves a strategy for every value
// or target type it visits: a registered strategy when the registry has
// one, structural field-by-field traversal for structs, element-wise
// traversal for containers, and the scalar table for primitives.
//
// The registry is an explicit dependency; every lookup goes through it
// at dispatch time, so a Register or Deregister call is visible to all
// later nodes of a traversal already in flight.
type Engine struct {
	reg     *Registry
	structs cache[*structInfo]
}

// New returns an engine dispatching against reg. A nil reg means
// [DefaultRegistry].
func New(reg *Registry) *Engine {
	if reg == nil {
		reg = DefaultRegistry
	}
	return &Engine{reg: reg}
}

var defaultEngine = New(nil)

var emptyStructType = reflect.TypeOf(struct{}{})

// Serialize converts v to its IR, dispatching against
// [DefaultRegistry].
func Serialize(v any) (ir.Value, error) {
	return defaultEngine.Serialize(v)
}

// Parse reconstructs a value of the target type from raw, dispatching
// against [DefaultRegistry]. See [Engine.Parse].
func Parse(target reflect.Type, raw any, strict bool) (any, error) {
	return defaultEngine.Parse(target, raw, strict)
}

// ParseAs is [Parse] with the target type given statically. When a
// non-strict parse passes raw through unchanged and the result is not a
// T, ParseAs reports that as a [TypeMismatchError] since it cannot
// return the untyped value.
func ParseAs[T any](raw any, strict bool) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	v, err := defaultEngine.Parse(t, raw, strict)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, TypeMismatchError{Value: v, Got: shapeOf(v), Want: t.String()}
	}
	return out, nil
}
