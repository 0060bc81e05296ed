package pykachu

import (
	"fmt"
	"reflect"

	"github.com/GrayHat12/pykachu/ir"
)

// UnsupportedTypeError is the error returned when Serialize encounters
// a value whose runtime shape matches none of: registered strategy,
// composite struct, collection, or scalar. Unsupported values are never
// silently coerced or dropped.
type UnsupportedTypeError struct {
	// Type is the name of the type that caused the error.
	Type string
	// Reason is an explanation of why the type has no IR
	// representation.
	Reason error
}

func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("cannot represent %s: %s", e.Type, e.Reason)
}

func (e UnsupportedTypeError) Unwrap() error {
	return e.Reason
}

func typeErr(t reflect.Type, reason string, args ...any) error {
	ts := ""
	if t != nil {
		ts = t.String()
	}
	return UnsupportedTypeError{ts, fmt.Errorf(reason, args...)}
}

// TypeMismatchError is the error returned by strict Parse calls when
// the input's shape cannot satisfy the target type.
type TypeMismatchError struct {
	// Value is the offending input.
	Value any
	// Got is the shape of the input.
	Got string
	// Want is the target type the input was parsed against.
	Want string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot parse %s %#v as %s", e.Got, e.Value, e.Want)
}

func mismatchErr(want reflect.Type, raw any) error {
	return TypeMismatchError{Value: raw, Got: shapeOf(raw), Want: want.String()}
}

// MissingFieldError is the error returned by strict Parse calls when a
// struct field with no default is absent from the input mapping.
type MissingFieldError struct {
	Struct string
	Field  string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %s in input for %s", e.Field, e.Struct)
}

// shapeOf describes raw for diagnostics: the IR kind for IR values, the
// Go type otherwise.
func shapeOf(raw any) string {
	if raw == nil {
		return "null"
	}
	if v, ok := raw.(ir.Value); ok {
		return v.Kind().String()
	}
	return fmt.Sprintf("%T", raw)
}
