// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/creachadair/json5/ast"
)

func TestParse(t *testing.T) {
	input, err := os.ReadFile("../testdata/input.json5")
	if err != nil {
		t.Fatalf("Reading test input: %v", err)
	}

	start := time.Now()
	vs, err := ast.Parse(bytes.NewReader(input))
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	t.Logf("Parsed %d bytes into %d values [%v elapsed]",
		len(input), len(vs), elapsed)
	if len(vs) == 0 {
		t.Fatal("No objects found")
	}

	// Inspect some of the structure of the test value to make sure we got
	// something approximating sense.
	//
	// If the testdata file changes, this may need to be updated.
	//
	// {
	//   episodes: [
	//     {
	//       ...
	//       summary: "whatever blah blah",
	//       ...
	//     },
	//     ...
	//   ]
	// }
	//

	root, ok := vs[0].(ast.Object)
	if !ok {
		t.Fatalf("Root is %T, not object", vs[0])
	}
	mem := root.Find("episodes")
	if mem == nil {
		t.Fatal(`Key "episodes" not found`)
	}
	lst, ok := mem.Value.(ast.Array)
	if !ok {
		t.Fatalf("Member value is %T, not array", mem.Value)
	} else if len(lst) == 0 {
		t.Fatal("Array value is empty")
	}
	obj, ok := lst[1].(ast.Object)
	if !ok {
		t.Fatalf("Array entry is %T, not object", lst[0])
	}
	check[ast.Quoted](t, obj, "summary", func(s ast.Quoted) {
		dec, err := s.Unquote()
		if err != nil {
			t.Errorf("Unquote %s: %v", s.JSON5(), err)
		}
		t.Logf("String field value: %s", dec)
	})
	check[ast.Number](t, obj, "episode", func(v ast.Number) {
		t.Logf("Number field value: %v", v)
		if !v.IsInt() {
			t.Errorf("Number %s should be recognized as integer", v.JSON5())
		}
	})
	check[ast.Bool](t, obj, "hasDetail", func(v ast.Bool) {
		t.Logf("Bool field value: %v", v)
	})

	// Hex integers survive with their source spelling.
	check[ast.Number](t, root, "colorMask", func(v ast.Number) {
		if !v.IsInt() {
			t.Errorf("Number %s should be recognized as integer", v.JSON5())
		}
		if got, err := v.Int64(); err != nil || got != 0xff00ff {
			t.Errorf("Int64: got %v, %v; want %d", got, err, 0xff00ff)
		}
	})
}

func check[T any](t *testing.T, obj ast.Object, key string, f func(T)) {
	t.Helper()
	if v := obj.Find(key); v == nil {
		t.Fatalf("Key %q not found", key)
	} else if tv, ok := v.Value.(T); !ok {
		var zero T
		t.Fatalf("Key %q value is %T, not %T", key, v, zero)
	} else if f != nil {
		f(tv)
	}
}

func TestParseSingle(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		v, err := ast.ParseSingle(strings.NewReader(`{ok: [true, 'yes']} // trailing comment`))
		if err != nil {
			t.Fatalf("ParseSingle failed: %v", err)
		}
		if got, want := v.JSON5(), `{ok:[true,'yes']}`; got != want {
			t.Errorf("Value: got %s, want %s", got, want)
		}
	})
	t.Run("Empty", func(t *testing.T) {
		v, err := ast.ParseSingle(strings.NewReader("  /* nothing here */  "))
		if err == nil {
			t.Errorf("ParseSingle: got %+v, want error", v)
		}
	})
	t.Run("Extra", func(t *testing.T) {
		v, err := ast.ParseSingle(strings.NewReader(`[1] [2]`))
		if !errors.Is(err, ast.ErrExtraInput) {
			t.Errorf("ParseSingle: got %v, want %v", err, ast.ErrExtraInput)
		}
		if v == nil || v.JSON5() != `[1]` {
			t.Errorf("ParseSingle: got %+v, want [1]", v)
		}
	})
	t.Run("Invalid", func(t *testing.T) {
		v, err := ast.ParseSingle(strings.NewReader(`{unterminated: `))
		if err == nil {
			t.Errorf("ParseSingle: got %+v, want error", v)
		}
	})
}
