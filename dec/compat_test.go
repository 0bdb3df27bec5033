// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package dec_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/creachadair/json5/dec"
	"github.com/google/go-cmp/cmp"
	"github.com/tailscale/hujson"
)

// JSON5 is a superset of JWCC (JSON with commas and comments), so inputs in
// that dialect must decode to the same values the standard library produces
// after hujson rewrites them to plain JSON.
func TestJWCCCompat(t *testing.T) {
	tests := []string{
		`null`,
		`true`,
		`[]`,
		`[1, 2, 3,]`,
		`{"a": 1, "b": [true, null], /* inline */ "c": "text"}`,
		`// leading comment
{
  "outer": {
    "inner": [0.5, 2e3, -17], // values
  },
}`,
	}
	for _, input := range tests {
		std, err := hujson.Standardize([]byte(input))
		if err != nil {
			t.Errorf("Standardize %#q: unexpected error: %v", input, err)
			continue
		}
		var want any
		if err := json.Unmarshal(std, &want); err != nil {
			t.Errorf("Unmarshal %#q: unexpected error: %v", std, err)
			continue
		}

		got, err := dec.Decode(bytes.NewReader([]byte(input)), dec.Native{})
		if err != nil {
			t.Errorf("Decode %#q: unexpected error: %v", input, err)
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Input: %#q\nValues: (-want, +got)\n%s", input, diff)
		}
	}
}
