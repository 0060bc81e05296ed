// Package pykachu converts structured in-memory values (structs,
// containers, nested optionals, primitives, and arbitrary user types)
// to a canonical intermediate representation of scalars, sequences and
// key-ordered mappings, and reconstructs typed values from that
// representation.
//
// [Serialize] dispatches on a value's runtime type; [Parse] dispatches
// on a declared target type, since parse input is typically
// already-decoded IR with no native type tags. Both consult a
// [Registry] of per-type [Strategy] pairs, so default behavior for
// built-in types can be overridden and behavior for new types added
// without touching the engine. Types with no registered strategy fall
// back to structural handling: field-by-field traversal for structs,
// element-wise traversal for slices, arrays, maps and sets, scalar
// conversion for primitive kinds.
//
// Parsing takes a strict flag, threaded unchanged through the whole
// traversal. Strict parsing is fail-fast and precise, for validating
// untrusted input; non-strict parsing is best-effort and never fails on
// a shape mismatch, for tolerant round-tripping of trusted data.
//
// The IR itself, and its canonical JSON text form, live in the ir
// package; YAML and MessagePack codecs over the IR live in the codec
// package.
package pykachu
