package pykachu

import (
	"time"

	"github.com/GrayHat12/pykachu/ir"
)

// Fixture types shared across the package's tests.

type Simple struct {
	A int64
	B bool
}

type Nested struct {
	A string
	B Simple
}

type Embedded struct {
	Simple
	C string
}

type EmbeddedP struct {
	*Simple
	C string
}

// EmbeddedShadow redeclares B at the outer level, hiding Simple.B per
// Go's promotion rules.
type EmbeddedShadow struct {
	Simple
	B int64
}

type User struct {
	ID       int64     `pyka:"id"`
	Name     string    `pyka:"name"`
	SignupTS time.Time `pyka:"signup_ts"`
	Friends  []int64   `pyka:"friends"`
}

type Server struct {
	Host  string `pyka:"host,default=localhost"`
	Port  int    `pyka:"port,default=8080"`
	Debug bool   `pyka:"-"`
}

// Named scalar kinds, with no registered strategy of their own.
type port uint16

type hostname string

// mapOf builds a mapping from alternating key/value pairs, in argument
// order.
func mapOf(pairs ...any) *ir.Mapping {
	m := ir.NewMapping()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(ir.Value))
	}
	return m
}
