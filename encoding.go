// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package json5

import (
	"errors"

	"github.com/creachadair/json5/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON5 string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return `"` + string(escape.Quote(mem.S(src))) + `"` }

// Unquote decodes a JSON5 string value.  The enclosing quotation marks,
// which may be single or double, are removed, and escape sequences are
// replaced with their unescaped equivalents.
//
// Unquote reports an error for an incomplete escape sequence or for a hex or
// Unicode escape that does not denote a valid code point.
func Unquote(src string) ([]byte, error) {
	if len(src) < 2 || (src[0] != '"' && src[0] != '\'') || src[len(src)-1] != src[0] {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.S(src[1 : len(src)-1]))
}
