// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/creachadair/json5/ast"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

const testJSON5 = `{
  // A list of objects.
  list: [
    {
      x: 1,
    },
    {
      x: 2,
    },
  ],
  y: {
    hello: 'there',
  },
  "o": [
    "hi",
    "yourself",
  ],
  xyz: {
    p: true,
    d: true,
    q: false,
  },
}`

func TestPath(t *testing.T) {
	v, err := ast.ParseSingle(strings.NewReader(testJSON5))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		name string
		path []any
		want ast.Value
		fail bool
	}{
		{"NilInput", nil, v, false},
		{"NoMatch", []any{"nonesuch"}, v, true},
		{"WrongType", []any{11}, v, true},

		{"ArrayPos", []any{"list", 1},
			v.(ast.Object).Find("list").Value.(ast.Array)[1],
			false,
		},
		{"ArrayNeg", []any{"list", -1},
			v.(ast.Object).Find("list").Value.(ast.Array)[1],
			false,
		},
		{"ArrayRange", []any{"o", 25}, v, true},
		{"ObjPath", []any{"xyz", "d"},
			v.(ast.Object).Find("xyz").Value.(ast.Object).Find("d").Value,
			false,
		},

		{"FuncArray", []any{"o", testPathFunc}, ast.ToValue(2), false},
		{"FuncObj", []any{"xyz", testPathFunc}, ast.ToValue(3), false},
		{"FuncWrong", []any{"xyz", "d", testPathFunc}, v, true},
	}
	opt := cmp.AllowUnexported(
		ast.Quoted{},
		ast.Number{},
	)
	for _, tc := range tests {

		t.Run(tc.name, func(t *testing.T) {
			got, err := ast.Path(v, tc.path...)
			if err != nil {
				if tc.fail {
					t.Logf("Got expected error: %v", err)
				} else {
					t.Fatalf("Path: unexpected error: %v", err)
				}
			}
			if diff := cmp.Diff(got, tc.want, opt); diff != "" {
				t.Errorf("Wrong result (-got, +want):\n%s", diff)
			} else if err == nil {
				t.Logf("Found %s OK", got.JSON5())
			}
		})
	}
}

func testPathFunc(v ast.Value) (ast.Value, error) {
	if ln, ok := v.(interface{ Len() int }); ok {
		return ast.ToValue(ln.Len()), nil
	}
	return nil, errors.New("not a thing with length")
}

func TestString(t *testing.T) {
	tests := []struct {
		input ast.Value
		want  string
	}{
		{ast.Null{}, "null"},

		{ast.Bool(false), "false"},
		{ast.Bool(true), "true"},

		{ast.String(""), `""`},
		{ast.String("a \t b"), `"a \t b"`},

		{ast.Float(-0.00239), `-0.00239`},
		{ast.Float(math.Inf(1)), `Infinity`},
		{ast.Float(math.Inf(-1)), `-Infinity`},
		{ast.Float(math.NaN()), `NaN`},

		{ast.Int(0), `0`},
		{ast.Int(15), `15`},
		{ast.Int(-25), `-25`},

		{ast.Array{}, `[]`},
		{ast.Array{
			ast.Bool(false),
		}, `[false]`},
		{ast.Array{
			ast.Bool(true),
			ast.Int(199),
		}, `[true,199]`},
		{ast.Array{
			ast.String("free"),
			ast.String("your"),
			ast.String("mind"),
		}, `["free","your","mind"]`},

		{ast.Object{}, `{}`},
		{ast.Object{
			ast.Field("xs", ast.Null{}),
		}, `{"xs":null}`},
		{ast.Object{
			ast.Field("name", ast.String("Dennis")),
			ast.Field("age", ast.Int(37)),
			ast.Field("isOld", ast.Bool(false)),
		}, `{"name":"Dennis","age":37,"isOld":false}`},

		{ast.Object{
			ast.Field("values", ast.Array{
				ast.Int(5),
				ast.Int(10),
				ast.Bool(true),
			}),
			ast.Field("page", ast.Object{
				ast.Field("token", ast.String("xyz-pdq-zvm")),
				ast.Field("count", ast.Int(100)),
			}),
		}, `{"values":[5,10,true],"page":{"token":"xyz-pdq-zvm","count":100}}`},
	}
	for _, test := range tests {
		got := test.input.JSON5()
		if got != test.want {
			t.Errorf("Input: %+v\nGot:  %s\nWant: %s", test.input, got, test.want)
		}
	}
}

func TestToValue(t *testing.T) {
	if got := ast.ToValue(nil); got != (ast.Null{}) {
		t.Errorf("ToValue(nil): got %v, want null", got)
	}
	if got := ast.ToValue("foo"); got != ast.String("foo") {
		t.Errorf("ToValue(foo): got %v, want string", got)
	}
	mtest.MustPanic(t, func() { ast.ToValue(struct{}{}) })
	mtest.MustPanic(t, func() { ast.ToValue([]byte("nope")) })
}

func TestQuoted(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{`"plain"`, "plain", false},
		{`'single'`, "single", false},
		{`"tab\there"`, "tab\there", false},
		{`'don\'t'`, "don't", false},
		{`name`, "name", false}, // unquoted member names pass through
		{`"\uD800"`, "", true},
		{`"\x9"`, "", true},
	}
	for _, test := range tests {
		q := ast.NewQuoted(test.input)
		got, err := q.Unquote()
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote %#q: unexpected error: %v", test.input, err)
			}
			continue
		} else if test.fail {
			t.Errorf("Unquote %#q: got %q, want error", test.input, got)
		}
		if got != test.want {
			t.Errorf("Unquote %#q: got %q, want %q", test.input, got, test.want)
		}
	}
}

func TestNumber(t *testing.T) {
	t.Run("Int", func(t *testing.T) {
		n := ast.Int(-337)
		if !n.IsInt() {
			t.Error("IsInt should be true")
		}
		if got, err := n.Int64(); err != nil || got != -337 {
			t.Errorf("Int64: got %v, %v; want -337", got, err)
		}
		if got, err := n.Float64(); err != nil || got != -337 {
			t.Errorf("Float64: got %v, %v; want -337", got, err)
		}
	})
	t.Run("Float", func(t *testing.T) {
		n := ast.Float(0.25)
		if n.IsInt() {
			t.Error("IsInt should be false")
		}
		if got, err := n.Float64(); err != nil || got != 0.25 {
			t.Errorf("Float64: got %v, %v; want 0.25", got, err)
		}
		if got, err := n.Int64(); err == nil {
			t.Errorf("Int64: got %v, want error", got)
		}
	})
	t.Run("NaN", func(t *testing.T) {
		n := ast.Float(math.NaN())
		got, err := n.Float64()
		if err != nil || !math.IsNaN(got) {
			t.Errorf("Float64: got %v, %v; want NaN", got, err)
		}
	})
}
