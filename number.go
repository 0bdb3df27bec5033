// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package json5

import (
	"fmt"
	"math"
	"strconv"

	"go4.org/mem"
)

// ParseFloat converts the text of a JSON5 numeric literal to a
// floating-point value. The literal forms are checked in order:
//
//   - "Infinity" and "-Infinity" are the floating-point infinities.
//   - "NaN" and "-NaN" are NaN; the sign of a NaN literal is discarded.
//   - A literal prefixed "0x" or "0X", with an optional sign, is an
//     unsigned 32-bit hexadecimal integer widened to floating point.
//     Hex digits beyond 32 bits wrap; that is the defined range of the
//     format.
//   - Anything else is a decimal literal with optional sign, fraction,
//     and exponent, where the digits on either side of a decimal point
//     may be omitted.
func ParseFloat(text string) (float64, error) {
	switch text {
	case "Infinity", "+Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	case "NaN", "-NaN", "+NaN":
		return math.NaN(), nil
	}
	if neg, digits, ok := hexLiteral(text); ok {
		v, err := parseHex(digits)
		if err != nil {
			return 0, err
		}
		f := float64(v)
		if neg {
			f = -f
		}
		return f, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric literal %q", text)
	}
	return v, nil
}

// ParseInt converts the text of a JSON5 integer literal, decimal or
// hexadecimal, to an int64. Hex digits beyond 32 bits wrap, as for
// ParseFloat.
func ParseInt(text string) (int64, error) {
	if neg, digits, ok := hexLiteral(text); ok {
		v, err := parseHex(digits)
		if err != nil {
			return 0, err
		}
		z := int64(v)
		if neg {
			z = -z
		}
		return z, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %q", text)
	}
	return v, nil
}

// hexLiteral reports whether s is a hexadecimal integer literal, and if so
// returns its sign and the text of its digits.
func hexLiteral(s string) (neg bool, digits string, ok bool) {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return neg, s[2:], true
	}
	return false, "", false
}

// parseHex converts a run of hex digits to an unsigned 32-bit value.
// Digits beyond 32 bits wrap.
func parseHex(digits string) (uint32, error) {
	src := mem.S(digits)
	var v uint32
	for i := 0; i < src.Len(); i++ {
		b := src.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += uint32(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += uint32(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += uint32(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
