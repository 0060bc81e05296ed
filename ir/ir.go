// Package ir defines the canonical intermediate representation that
// values are serialized into and parsed back out of.
//
// An IR value is one of: a scalar ([Null], [Bool], [Int], [Uint],
// [Float], [String]), an ordered [Sequence] of IR values, or a
// [*Mapping] of text keys to IR values. Sequence order is significant
// and preserved round-trip. Mapping keys are unique; their order is
// insertion order, preserved for readability but not significant for
// lookup.
//
// IR values are acyclic and finite. The package also provides an
// order-preserving JSON codec, the canonical text form of the IR.
package ir

import (
	"fmt"
	"iter"
)

// Kind identifies the shape of an IR value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is an IR value.
type Value interface {
	Kind() Kind
}

// Null is the null scalar, the IR encoding of absence.
type Null struct{}

func (Null) Kind() Kind { return KindNull }

// Bool is a boolean scalar.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

// Int is a signed integer scalar.
type Int int64

func (Int) Kind() Kind { return KindInt }

// Uint is an unsigned integer scalar. It exists so that uint64 values
// above the int64 range survive round-trips losslessly.
type Uint uint64

func (Uint) Kind() Kind { return KindUint }

// Float is a floating-point scalar.
type Float float64

func (Float) Kind() Kind { return KindFloat }

// String is a text scalar.
type String string

func (String) Kind() Kind { return KindString }

// Sequence is an ordered list of IR values.
type Sequence []Value

func (Sequence) Kind() Kind { return KindSequence }

// Mapping is an ordered collection of unique text keys and their IR
// values. The zero Mapping is empty and ready to use.
type Mapping struct {
	keys []string
	vals map[string]Value
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping { return &Mapping{} }

func (m *Mapping) Kind() Kind { return KindMapping }

// Set stores v under key. A new key is appended; an existing key keeps
// its position and has its value replaced.
func (m *Mapping) Set(key string, v Value) {
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil || m.vals == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Len returns the number of keys in the mapping.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the mapping's keys in insertion order. The returned
// slice must not be modified.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// All ranges over the mapping's entries in insertion order.
func (m *Mapping) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Equal reports whether two mappings have the same keys in the same
// order with structurally equal values.
func (m *Mapping) Equal(o *Mapping) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i, k := range m.Keys() {
		if o.Keys()[i] != k {
			return false
		}
		a, _ := m.Get(k)
		b, _ := o.Get(k)
		if !Equal(a, b) {
			return false
		}
	}
	return true
}

// Equal reports structural equality of two IR values. Sequence order
// and mapping key order both count.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Sequence:
		bv := b.(Sequence)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		return av.Equal(b.(*Mapping))
	default:
		return a == b
	}
}
