// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/json5"
)

// ErrExtraInput is reported by ParseSingle when the input contains data
// after the first value, apart from comments and whitespace.
var ErrExtraInput = errors.New("extra input after value")

// Parse parses and returns the JSON5 values from r. In case of error, any
// complete values already parsed are returned along with the error.
func Parse(r io.Reader) ([]Value, error) {
	h := new(parseHandler)
	st := json5.NewStream(r)
	var vs []Value
	for {
		if err := st.ParseOne(h); err == io.EOF {
			return vs, nil
		} else if err != nil {
			return vs, err
		}
		if len(h.stk) != 1 {
			return vs, errors.New("incomplete value")
		}
		vs = append(vs, h.stk[0])
		h.stk = h.stk[:0]
	}
}

// ParseSingle parses and returns a single JSON5 value from r. If r contains
// data after the first value, apart from comments and whitespace,
// ParseSingle returns the first value along with an ErrExtraInput error.
func ParseSingle(r io.Reader) (Value, error) {
	h := new(parseHandler)
	st := json5.NewStream(r)
	if err := st.ParseOne(h); err == io.EOF {
		return nil, errors.New("no value found")
	} else if err != nil {
		return nil, err
	}
	if len(h.stk) != 1 {
		return nil, errors.New("incomplete value")
	}
	v := h.stk[0]
	h.stk = h.stk[:0]
	if err := st.ParseOne(h); err != io.EOF {
		return v, errors.Join(ErrExtraInput, err)
	}
	return v, nil
}

// A parseHandler implements the json5.Handler interface to construct
// abstract syntax trees for JSON5 values.
type parseHandler struct {
	stk []Value
}

// objectStub is a stack placeholder for an incomplete object during parsing.
// This type does not appear in a completed tree.
type objectStub struct{ members []*Member }

func (*objectStub) JSON5() string { return "" }

// arrayStub is a stack placeholder for an incomplete array during parsing.
// This type does not appear in a completed tree.
type arrayStub struct{ vals []Value }

func (*arrayStub) JSON5() string { return "" }

// reduceValue attaches a completed value to the structure under
// construction atop the stack, or shifts it if the stack is empty or has an
// incomplete container on top.
func (h *parseHandler) reduceValue(v Value) {
	if len(h.stk) != 0 {
		switch prev := h.stk[len(h.stk)-1].(type) {
		case *Member:
			if prev.Value == nil {
				prev.Value = v
				return
			}
		case *arrayStub:
			prev.vals = append(prev.vals, v)
			return
		}
	}
	h.stk = append(h.stk, v)
}

func (h *parseHandler) BeginObject(loc json5.Anchor) error {
	h.stk = append(h.stk, new(objectStub))
	return nil
}

func (h *parseHandler) EndObject(loc json5.Anchor) error {
	n := len(h.stk) - 1
	stub := h.stk[n].(*objectStub)
	h.stk = h.stk[:n]
	h.reduceValue(Object(stub.members))
	return nil
}

func (h *parseHandler) BeginArray(loc json5.Anchor) error {
	h.stk = append(h.stk, new(arrayStub))
	return nil
}

func (h *parseHandler) EndArray(loc json5.Anchor) error {
	n := len(h.stk) - 1
	stub := h.stk[n].(*arrayStub)
	h.stk = h.stk[:n]
	h.reduceValue(Array(stub.vals))
	return nil
}

func (h *parseHandler) BeginMember(loc json5.Anchor) error {
	// The object this member belongs to is atop the stack.  Add the new
	// member into its collection eagerly, so that when the member's value is
	// known we don't have to search the stack for its home.

	m := &Member{Key: Quoted{text: string(loc.Text())}}
	obj := h.stk[len(h.stk)-1].(*objectStub)
	obj.members = append(obj.members, m)
	h.stk = append(h.stk, m)
	return nil
}

func (h *parseHandler) EndMember(loc json5.Anchor) error {
	// The member is already recorded in its object; pop it.
	h.stk = h.stk[:len(h.stk)-1]
	return nil
}

func (h *parseHandler) Value(loc json5.Anchor) error {
	text := string(loc.Text())
	var v Value
	switch loc.Token() {
	case json5.String:
		v = Quoted{text: text}
	case json5.Integer:
		v = Number{text: text, isInt: true}
	case json5.Number:
		v = Number{text: text}
	case json5.True, json5.False:
		v = Bool(loc.Token() == json5.True)
	case json5.Null:
		v = Null{}
	default:
		return fmt.Errorf("unknown value %v", loc.Token())
	}
	h.reduceValue(v)
	return nil
}

func (h *parseHandler) EndOfInput(loc json5.Anchor) {}
