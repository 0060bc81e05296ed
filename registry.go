package pykachu

import (
	"reflect"
	"sync"

	"github.com/GrayHat12/pykachu/ir"
)

// A Strategy converts values of one type to and from the IR. Built-in
// strategies and user strategies conform to the same contract; there is
// no privileged path.
//
// FromIR must return raw unchanged if it is already an instance of the
// target type. Otherwise it attempts coercion; on failure it returns a
// [TypeMismatchError] in strict mode and raw unchanged in non-strict
// mode.
type Strategy interface {
	ToIR(v any) (ir.Value, error)
	FromIR(target reflect.Type, raw any, strict bool) (any, error)
}

// StrategyFuncs adapts a pair of functions into a [Strategy], so a
// strategy can be defined in isolation and registered separately.
type StrategyFuncs struct {
	ToIRFunc   func(v any) (ir.Value, error)
	FromIRFunc func(target reflect.Type, raw any, strict bool) (any, error)
}

func (s StrategyFuncs) ToIR(v any) (ir.Value, error) { return s.ToIRFunc(v) }

func (s StrategyFuncs) FromIR(target reflect.Type, raw any, strict bool) (any, error) {
	return s.FromIRFunc(target, raw, strict)
}

// Registry is a table of type-to-strategy associations with
// process-wide lifetime. Lookups are safe to interleave with concurrent
// Register and Deregister calls; a concurrent mutation may be observed
// or not for that key, but never as a torn entry.
type Registry struct {
	m sync.Map // reflect.Type -> Strategy
}

// NewRegistry returns a registry pre-populated with the built-in
// strategies: all primitive kinds, []byte, time.Time, time.Duration and
// uuid.UUID.
func NewRegistry() *Registry {
	r := new(Registry)
	registerBuiltins(r)
	return r
}

// Register associates s with t, replacing any existing entry for t.
// Overwriting is not an error; the last write wins. The change is
// visible to all subsequent lookups, including from dispatch calls
// already in flight.
func (r *Registry) Register(t reflect.Type, s Strategy) {
	r.m.Store(t, s)
}

// Deregister removes the entry for t, if any. Deregistering an absent
// key is a no-op. Deregistering a built-in entry removes default
// behavior for that type until it is re-registered.
func (r *Registry) Deregister(t reflect.Type) {
	r.m.Delete(t)
}

// Lookup returns the strategy registered for t.
func (r *Registry) Lookup(t reflect.Type) (Strategy, bool) {
	ent, ok := r.m.Load(t)
	if !ok {
		return nil, false
	}
	return ent.(Strategy), true
}

// Register associates s with the type T in r.
func Register[T any](r *Registry, s Strategy) {
	r.Register(reflect.TypeFor[T](), s)
}

// Deregister removes the entry for the type T from r.
func Deregister[T any](r *Registry) {
	r.Deregister(reflect.TypeFor[T]())
}

// DefaultRegistry is the registry used by the package-level API. It is
// created at process start with the built-in entries and lives for the
// process lifetime.
var DefaultRegistry = NewRegistry()

// RegisterSupport registers a strategy for the type T in
// [DefaultRegistry].
func RegisterSupport[T any](s Strategy) {
	Register[T](DefaultRegistry, s)
}

// DeregisterSupport removes support for the type T from
// [DefaultRegistry].
func DeregisterSupport[T any]() {
	Deregister[T](DefaultRegistry)
}
