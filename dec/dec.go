// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package dec implements decoding of parsed JSON5 values into Go values
// through a visitor protocol.
//
// # Decoding model
//
// A Decoder owns a single parsed value, which it consumes exactly once.
// Its Dispatch method examines the kind of that value and hands the
// corresponding Go representation to exactly one method of the caller's
// Visitor. Decoding is value-driven: the parsed syntax alone determines
// which visitor method is called, never the shape the caller hopes to
// receive. Callers that want a particular shape check what they were given.
//
// Arrays and objects are decoded lazily. The visitor receives an access
// point (Elements or Members) and pulls decoded children from it in source
// order, supplying a fresh visitor (the seed) for each child. Object
// values are decoded only when the visitor implements the optional
// ObjectVisitor capability; otherwise Dispatch reports ErrUnsupportedShape.
package dec

import (
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/json5"
	"github.com/creachadair/json5/ast"
)

var (
	// ErrUnsupportedShape is reported when an object value reaches a
	// visitor that does not implement the ObjectVisitor capability.
	ErrUnsupportedShape = errors.New("unsupported value shape")

	// ErrConsumed is reported when a decoder's value is dispatched twice.
	ErrConsumed = errors.New("value already consumed")

	// ErrDepth is reported when decoding descends past the depth limit.
	ErrDepth = errors.New("nesting depth exceeds limit")
)

// A DecodeError reports a fault converting a parsed value to a Go value.
type DecodeError struct {
	Msg string // description of the fault

	err error // underlying cause, if any
}

// Error satisfies the error interface.
func (e *DecodeError) Error() string {
	if e.err != nil {
		return e.Msg + ": " + e.err.Error()
	}
	return e.Msg
}

// Unwrap supports error wrapping.
func (e *DecodeError) Unwrap() error { return e.err }

func decodeErr(cause error, msg string, args ...any) *DecodeError {
	return &DecodeError{Msg: fmt.Sprintf(msg, args...), err: cause}
}

// A Visitor receives exactly one decoded value per Dispatch, through the
// method matching the parsed value's kind. The non-error return is the
// constructed result, which Dispatch propagates to its caller.
type Visitor interface {
	// Null accepts the null value.
	Null() (any, error)

	// Bool accepts a Boolean value.
	Bool(bool) (any, error)

	// String accepts a string value with all escape sequences resolved.
	String(string) (any, error)

	// Number accepts a numeric value.
	Number(float64) (any, error)

	// Array accepts a sequence of values via its access point.
	Array(*Elements) (any, error)
}

// ObjectVisitor is an optional capability a Visitor may implement to accept
// object values. Dispatching an object to a visitor without this capability
// fails with ErrUnsupportedShape.
type ObjectVisitor interface {
	Visitor

	// Object accepts an ordered sequence of key-value members via its
	// access point.
	Object(*Members) (any, error)
}

// A Decoder owns one parsed value and converts it through a Visitor.
type Decoder struct {
	node  ast.Value
	used  bool
	depth int
	limit int
}

// New constructs a Decoder that owns the parsed value v.
func New(v ast.Value) *Decoder {
	return &Decoder{node: v, limit: json5.DefaultMaxDepth}
}

// SetMaxDepth sets the maximum nesting depth Dispatch will walk before
// failing with ErrDepth. If n <= 0 the limit is restored to
// json5.DefaultMaxDepth.
func (d *Decoder) SetMaxDepth(n int) {
	if n <= 0 {
		n = json5.DefaultMaxDepth
	}
	d.limit = n
}

// take extracts the value held by d. The value can be extracted at most
// once; further calls report ErrConsumed. Reuse is a programming error in
// the caller, but it is reported as an ordinary error rather than a panic.
func (d *Decoder) take() (ast.Value, error) {
	if d.used {
		return nil, decodeErr(ErrConsumed, "dispatch")
	}
	d.used = true
	return d.node, nil
}

// Dispatch consumes the value held by d and hands its decoded form to the
// matching method of v. The kind of the parsed value alone selects the
// method; the dispatch is identical no matter what shape the caller is
// trying to construct.
//
// Scalar conversion faults and faults reported by the visitor terminate the
// walk; no partial result is returned.
func (d *Decoder) Dispatch(v Visitor) (any, error) {
	node, err := d.take()
	if err != nil {
		return nil, err
	}
	if d.depth > d.limit {
		return nil, decodeErr(ErrDepth, "depth %d", d.depth)
	}
	switch t := node.(type) {
	case ast.Null:
		return v.Null()
	case ast.Bool:
		return v.Bool(bool(t))
	case ast.String:
		return v.String(string(t))
	case ast.Quoted:
		dec, err := t.Unquote()
		if err != nil {
			return nil, decodeErr(err, "invalid string %s", t.JSON5())
		}
		return v.String(dec)
	case ast.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, decodeErr(err, "invalid number %s", t.JSON5())
		}
		return v.Number(f)
	case ast.Array:
		return v.Array(&Elements{dec: d, vals: t})
	case ast.Object:
		if ov, ok := v.(ObjectVisitor); ok {
			return ov.Object(&Members{dec: d, mems: t})
		}
		return nil, decodeErr(ErrUnsupportedShape, "cannot decode object with %T", v)
	}
	return nil, decodeErr(nil, "unknown value %T", node)
}

// child constructs a decoder for a nested value one level below d.
func (d *Decoder) child(node ast.Value) *Decoder {
	return &Decoder{node: node, depth: d.depth + 1, limit: d.limit}
}

// Elements is the access point for the elements of an array, visited
// lazily and strictly in source order.
type Elements struct {
	dec  *Decoder
	vals ast.Array
	pos  int
}

// Next decodes the next element of the sequence through seed, the visitor
// that receives the element's value, and reports whether an element was
// available. Each element is decoded by a fresh Decoder, and the seed may
// differ per call, so the elements of one sequence can be decoded into
// heterogeneous shapes. Once the sequence is exhausted Next reports false
// on every subsequent call.
func (e *Elements) Next(seed Visitor) (any, bool, error) {
	if e.pos >= len(e.vals) {
		return nil, false, nil
	}
	elt := e.dec.child(e.vals[e.pos])
	e.pos++
	v, err := elt.Dispatch(seed)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// An Entry is one decoded key-value member of an object.
type Entry struct {
	Key   string
	Value any
}

// Members is the access point for the members of an object, visited lazily
// and strictly in source order, symmetrically to Elements.
type Members struct {
	dec  *Decoder
	mems ast.Object
	pos  int
}

// Next decodes the next member of the object: the key with its escapes
// resolved, and the value through seed via a fresh Decoder. It reports
// whether a member was available, and reports false on every call once the
// object is exhausted.
func (m *Members) Next(seed Visitor) (Entry, bool, error) {
	if m.pos >= len(m.mems) {
		return Entry{}, false, nil
	}
	mem := m.mems[m.pos]
	m.pos++
	key, err := mem.Key.Unquote()
	if err != nil {
		return Entry{}, false, decodeErr(err, "invalid member key %s", mem.Key.JSON5())
	}
	val, err := m.dec.child(mem.Value).Dispatch(seed)
	if err != nil {
		return Entry{}, false, err
	}
	return Entry{Key: key, Value: val}, true, nil
}

// Decode parses a single JSON5 value from r and dispatches it to v.
// The error is a *json5.SyntaxError if the input is malformed, or a
// *DecodeError if a parsed value could not be converted.
func Decode(r io.Reader, v Visitor) (any, error) {
	root, err := ast.ParseSingle(r)
	if err != nil {
		return nil, err
	}
	return New(root).Dispatch(v)
}
