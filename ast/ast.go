// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an abstract syntax tree for JSON5 values,
// and a parser that constructs syntax trees from JSON5 source.
package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/json5"
)

// A Value is an arbitrary JSON5 value.
type Value interface {
	// JSON5 returns a JSON5 text encoding of the value.
	JSON5() string
}

// Null represents the JSON5 null constant.
type Null struct{}

func (Null) JSON5() string  { return "null" }
func (Null) String() string { return "null" }

// A Bool is a Boolean constant, true or false.
type Bool bool

func (b Bool) JSON5() string {
	if b {
		return "true"
	}
	return "false"
}

// A String is a plain string value, with no escapes or quotation marks.
type String string

func (s String) JSON5() string { return json5.Quote(string(s)) }

func (s String) Len() int { return len(s) }

// A Quoted is a string in its raw source form. For quoted text this
// includes the enclosing quotation marks and any escape sequences; an
// unquoted member name is retained as plain text. Use Unquote to resolve
// the escapes.
type Quoted struct {
	text string
}

// NewQuoted wraps raw source text, quotes included, as a Quoted value.
func NewQuoted(text string) Quoted { return Quoted{text: text} }

func (q Quoted) JSON5() string { return q.text }

// Unquote returns the plain text of q with all escape sequences resolved.
// It reports an error for an incomplete escape sequence or an escape that
// does not denote a valid code point.
func (q Quoted) Unquote() (string, error) {
	if q.text != "" && (q.text[0] == '"' || q.text[0] == '\'') {
		dec, err := json5.Unquote(q.text)
		if err != nil {
			return "", err
		}
		return string(dec), nil
	}
	return q.text, nil // an unquoted member name
}

// A Number is a numeric value. The source text of its JSON5 numeral is
// retained and converted on demand.
type Number struct {
	text  string
	isInt bool
}

// Int constructs a Number with the value of z.
func Int(z int64) Number { return Number{text: strconv.FormatInt(z, 10), isInt: true} }

// Float constructs a Number with the value of f.
func Float(f float64) Number {
	switch {
	case math.IsNaN(f):
		return Number{text: "NaN"}
	case math.IsInf(f, 1):
		return Number{text: "Infinity"}
	case math.IsInf(f, -1):
		return Number{text: "-Infinity"}
	}
	text := strconv.FormatFloat(f, 'g', -1, 64)
	return Number{text: text, isInt: !strings.ContainsAny(text, ".eE")}
}

// IsInt reports whether n is an integer literal, decimal or hexadecimal.
func (n Number) IsInt() bool { return n.isInt }

// Float64 returns the value of n as a floating-point number.
func (n Number) Float64() (float64, error) { return json5.ParseFloat(n.text) }

// Int64 returns the value of n as an int64. It reports an error if n is not
// an integer literal.
func (n Number) Int64() (int64, error) { return json5.ParseInt(n.text) }

func (n Number) JSON5() string  { return n.text }
func (n Number) String() string { return n.text }

// An Array is a sequence of values.
type Array []Value

func (a Array) JSON5() string {
	if len(a) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(a[0].JSON5())
	for _, elt := range a[1:] {
		sb.WriteByte(',')
		sb.WriteString(elt.JSON5())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a Array) String() string { return fmt.Sprintf("Array(len=%d)", len(a)) }

func (a Array) Len() int { return len(a) }

// An Object is an ordered collection of key-value members.
type Object []*Member

// Find returns the first member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if t, err := m.Key.Unquote(); err == nil && t == key {
			return m
		}
	}
	return nil
}

func (o Object) JSON5() string {
	if len(o) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	sb.WriteString(o[0].JSON5())
	for _, m := range o[1:] {
		sb.WriteByte(',')
		sb.WriteString(m.JSON5())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (o Object) String() string { return fmt.Sprintf("Object(len=%d)", len(o)) }

func (o Object) Len() int { return len(o) }

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   Quoted
	Value Value
}

func (m Member) JSON5() string { return m.Key.JSON5() + ":" + m.Value.JSON5() }

func (m Member) String() string { return fmt.Sprintf("Member(key=%s)", m.Key.JSON5()) }

// Field constructs an object member with the given key and value.
// The value must be a string, int, float, bool, nil, or ast.Value.
func Field(key string, value any) *Member {
	return &Member{Key: Quoted{text: json5.Quote(key)}, Value: ToValue(value)}
}

// ToValue converts a string, int, float, bool, or nil into an ast.Value.
// It panics if v does not have one of those types.
func ToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Float(t)
	case Value:
		return t
	}
	panic(fmt.Sprintf("cannot convert %T to a value", v))
}

// Path traverses a sequential path into the structure of v and returns the
// value it reaches. Path elements are strings (object keys), integers
// (offsets into arrays or objects, negative counting backward from the
// end), functions with signature func(Value) (Value, error), or nil.
// Indexing into an object yields the *Member at that offset; use a nil
// element to indirect through a member at the end of a path.
// In case of error, the input v is returned along with the error.
func Path(v Value, path ...any) (Value, error) {
	cur := v
	for _, elt := range path {
		// Stepping into an object member continues from its value.
		if m, ok := cur.(*Member); ok {
			cur = m.Value
		}

		switch t := elt.(type) {
		case string:
			obj, ok := cur.(Object)
			if !ok {
				return v, fmt.Errorf("cannot traverse %T with %q", cur, t)
			}
			m := obj.Find(t)
			if m == nil {
				return v, fmt.Errorf("key %q not found", t)
			}
			cur = m.Value

		case int:
			switch e := cur.(type) {
			case Array:
				i, ok := fixArrayBound(len(e), t)
				if !ok {
					return v, fmt.Errorf("array index %d out of bounds (n=%d)", t, len(e))
				}
				cur = e[i]
			case Object:
				i, ok := fixArrayBound(len(e), t)
				if !ok {
					return v, fmt.Errorf("object index %d out of bounds (n=%d)", t, len(e))
				}
				cur = e[i]
			default:
				return v, fmt.Errorf("cannot traverse %T with %v", cur, t)
			}

		case func(Value) (Value, error):
			next, err := t(cur)
			if err != nil {
				return v, err
			}
			cur = next

		case nil:
			// Do nothing. This case supports indirecting through a member at
			// the end of the path.

		default:
			return nil, fmt.Errorf("invalid path element %T", elt)
		}
	}
	return cur, nil
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
