package pykachu

import (
	"encoding/hex"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/GrayHat12/pykachu/ir"
)

// registerBuiltins populates r with the default strategies. Every entry
// goes through the same Register path a user strategy would; built-ins
// have no privileged dispatch.
func registerBuiltins(r *Registry) {
	scalar := scalarStrategy{}
	for _, t := range []reflect.Type{
		reflect.TypeFor[bool](),
		reflect.TypeFor[int](),
		reflect.TypeFor[int8](),
		reflect.TypeFor[int16](),
		reflect.TypeFor[int32](),
		reflect.TypeFor[int64](),
		reflect.TypeFor[uint](),
		reflect.TypeFor[uint8](),
		reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](),
		reflect.TypeFor[uint64](),
		reflect.TypeFor[float32](),
		reflect.TypeFor[float64](),
		reflect.TypeFor[string](),
	} {
		r.Register(t, scalar)
	}
	Register[[]byte](r, bytesStrategy{})
	Register[time.Time](r, timeStrategy{})
	Register[time.Duration](r, durationStrategy{})
	Register[uuid.UUID](r, uuidStrategy{})
}

// scalarStrategy handles the unnamed primitive types through the shared
// scalar coercion table.
type scalarStrategy struct{}

func (scalarStrategy) ToIR(v any) (ir.Value, error) {
	return scalarOf(reflect.ValueOf(v))
}

func (scalarStrategy) FromIR(target reflect.Type, raw any, strict bool) (any, error) {
	return coerceScalar(target, raw, strict)
}

// bytesStrategy stores []byte as hex text.
type bytesStrategy struct{}

func (bytesStrategy) ToIR(v any) (ir.Value, error) {
	return ir.String(hex.EncodeToString(v.([]byte))), nil
}

func (bytesStrategy) FromIR(target reflect.Type, raw any, strict bool) (any, error) {
	if b, ok := raw.([]byte); ok {
		return b, nil
	}
	if s, ok := rawString(raw); ok {
		if b, err := hex.DecodeString(s); err == nil {
			return b, nil
		}
	}
	if strict {
		return nil, mismatchErr(target, raw)
	}
	return raw, nil
}

// timeStrategy stores instants as RFC 3339 text with sub-second
// precision retained.
type timeStrategy struct{}

func (timeStrategy) ToIR(v any) (ir.Value, error) {
	return ir.String(v.(time.Time).Format(time.RFC3339Nano)), nil
}

func (timeStrategy) FromIR(target reflect.Type, raw any, strict bool) (any, error) {
	if t, ok := raw.(time.Time); ok {
		return t, nil
	}
	if s, ok := rawString(raw); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
	}
	if strict {
		return nil, mismatchErr(target, raw)
	}
	return raw, nil
}

// durationStrategy stores durations in time.Duration's text form, and
// additionally accepts integer nanoseconds on the way in.
type durationStrategy struct{}

func (durationStrategy) ToIR(v any) (ir.Value, error) {
	return ir.String(v.(time.Duration).String()), nil
}

func (durationStrategy) FromIR(target reflect.Type, raw any, strict bool) (any, error) {
	if d, ok := raw.(time.Duration); ok {
		return d, nil
	}
	if s, ok := rawString(raw); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d, nil
		}
	}
	if n, ok := rawInt(raw); ok {
		return time.Duration(n), nil
	}
	if strict {
		return nil, mismatchErr(target, raw)
	}
	return raw, nil
}

// uuidStrategy stores UUIDs in canonical text form, and accepts text or
// 16 raw bytes on the way in.
type uuidStrategy struct{}

func (uuidStrategy) ToIR(v any) (ir.Value, error) {
	return ir.String(v.(uuid.UUID).String()), nil
}

func (uuidStrategy) FromIR(target reflect.Type, raw any, strict bool) (any, error) {
	if u, ok := raw.(uuid.UUID); ok {
		return u, nil
	}
	if s, ok := rawString(raw); ok {
		if u, err := uuid.Parse(s); err == nil {
			return u, nil
		}
	}
	if b, ok := raw.([]byte); ok && len(b) == 16 {
		if u, err := uuid.FromBytes(b); err == nil {
			return u, nil
		}
	}
	if strict {
		return nil, mismatchErr(target, raw)
	}
	return raw, nil
}
