// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package dec

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Native is a Visitor that constructs plain Go values: nil for null, bool,
// string, float64, []any for arrays, and map[string]any for objects. It
// implements the ObjectVisitor capability. A zero Native is ready for use
// and may be shared, as it carries no state.
type Native struct{}

// Null implements part of the Visitor interface.
func (Native) Null() (any, error) { return nil, nil }

// Bool implements part of the Visitor interface.
func (Native) Bool(b bool) (any, error) { return b, nil }

// String implements part of the Visitor interface.
func (Native) String(s string) (any, error) { return s, nil }

// Number implements part of the Visitor interface.
func (Native) Number(f float64) (any, error) { return f, nil }

// Array implements part of the Visitor interface.
func (n Native) Array(elts *Elements) (any, error) {
	out := []any{}
	for {
		v, ok, err := elts.Next(n)
		if err != nil {
			return nil, err
		} else if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

// Object implements the ObjectVisitor capability. Duplicate keys are
// resolved in favour of the last occurrence.
func (n Native) Object(mems *Members) (any, error) {
	out := make(map[string]any)
	for {
		e, ok, err := mems.Next(n)
		if err != nil {
			return nil, err
		} else if !ok {
			return out, nil
		}
		out[e.Key] = e.Value
	}
}

// Unmarshal parses a single JSON5 value from data and stores the result in
// the value pointed to by target, which must be a non-nil pointer.
//
// The input is first decoded to plain Go values with Native, then assigned
// by kind: numbers convert to any numeric type that can hold them, objects
// populate maps with string keys or the exported fields of structs, and
// arrays populate slices or arrays. Struct fields may rename their member
// key with a `json5:"name"` tag; a tag of "-" skips the field. Object keys
// with no matching field are ignored.
func Unmarshal(data []byte, target any) error {
	tp := reflect.ValueOf(target)
	if tp.Kind() != reflect.Ptr || tp.IsNil() {
		return decodeErr(nil, "target must be a non-nil pointer, not %T", target)
	}
	v, err := Decode(bytes.NewReader(data), Native{})
	if err != nil {
		return err
	}
	return assign(tp.Elem(), v)
}

// assign stores the decoded value v into the addressable target.
func assign(target reflect.Value, v any) error {
	// Fill in pointers along the way to the assignable target.
	for target.Kind() == reflect.Ptr {
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			return nil
		}
		if target.IsNil() {
			target.Set(reflect.New(target.Type().Elem()))
		}
		target = target.Elem()
	}
	if v == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	if target.Kind() == reflect.Interface && target.NumMethod() == 0 {
		target.Set(reflect.ValueOf(v))
		return nil
	}

	switch t := v.(type) {
	case bool:
		if target.Kind() != reflect.Bool {
			return decodeErr(nil, "cannot assign bool to %v", target.Type())
		}
		target.SetBool(t)
		return nil

	case string:
		if target.Kind() != reflect.String {
			return decodeErr(nil, "cannot assign string to %v", target.Type())
		}
		target.SetString(t)
		return nil

	case float64:
		return assignNumber(target, t)

	case []any:
		return assignSlice(target, t)

	case map[string]any:
		return assignObject(target, t)
	}
	return decodeErr(nil, "cannot assign %T to %v", v, target.Type())
}

func assignNumber(target reflect.Value, f float64) error {
	switch target.Kind() {
	case reflect.Float32, reflect.Float64:
		target.SetFloat(f)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		z := int64(f)
		if float64(z) != f || target.OverflowInt(z) {
			return decodeErr(nil, "value %v out of range for %v", f, target.Type())
		}
		target.SetInt(z)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if f < 0 || math.Trunc(f) != f {
			return decodeErr(nil, "value %v out of range for %v", f, target.Type())
		}
		z := uint64(f)
		if target.OverflowUint(z) {
			return decodeErr(nil, "value %v out of range for %v", f, target.Type())
		}
		target.SetUint(z)
		return nil
	}
	return decodeErr(nil, "cannot assign number to %v", target.Type())
}

func assignSlice(target reflect.Value, elts []any) error {
	switch target.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(target.Type(), len(elts), len(elts))
		for i, elt := range elts {
			if err := assign(out.Index(i), elt); err != nil {
				return err
			}
		}
		target.Set(out)
		return nil
	case reflect.Array:
		if target.Len() < len(elts) {
			return decodeErr(nil, "array too short for %d elements", len(elts))
		}
		for i, elt := range elts {
			if err := assign(target.Index(i), elt); err != nil {
				return err
			}
		}
		for i := len(elts); i < target.Len(); i++ {
			target.Index(i).Set(reflect.Zero(target.Type().Elem()))
		}
		return nil
	}
	return decodeErr(nil, "cannot assign array to %v", target.Type())
}

func assignObject(target reflect.Value, mems map[string]any) error {
	switch target.Kind() {
	case reflect.Map:
		mt := target.Type()
		if mt.Key().Kind() != reflect.String {
			return decodeErr(nil, "cannot assign object to %v", mt)
		}
		out := reflect.MakeMapWithSize(mt, len(mems))
		for key, val := range mems {
			slot := reflect.New(mt.Elem()).Elem()
			if err := assign(slot, val); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(key).Convert(mt.Key()), slot)
		}
		target.Set(out)
		return nil

	case reflect.Struct:
		fields := structFields(target.Type())
		for key, val := range mems {
			idx, ok := fields[key]
			if !ok {
				idx, ok = fields[strings.ToLower(key)]
			}
			if !ok {
				continue // unknown keys are ignored
			}
			if err := assign(target.Field(idx), val); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
		}
		return nil
	}
	return decodeErr(nil, "cannot assign object to %v", target.Type())
}

// structFields maps member keys to field offsets in stype. A field tagged
// `json5:"name"` matches name exactly; an untagged exported field matches
// its own name, or its name folded to lower case as a fallback.
func structFields(stype reflect.Type) map[string]int {
	out := make(map[string]int)
	for i := range stype.NumField() {
		ft := stype.Field(i)
		if !ft.IsExported() {
			continue
		}
		tag, ok := ft.Tag.Lookup("json5")
		if ok {
			name, _, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			} else if name != "" {
				out[name] = i
				continue
			}
		}
		out[ft.Name] = i
		lower := strings.ToLower(ft.Name)
		if _, ok := out[lower]; !ok {
			out[lower] = i
		}
	}
	return out
}
