// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package json5 implements a scanner and parser for JSON5.
//
// JSON5 is a superset of JSON that admits comments, trailing commas,
// single-quoted strings, unquoted member names, hexadecimal integers, and
// signed, Infinity, and NaN numeric literals.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON5.  Construct a
// scanner from an io.Reader and call its Next method to iterate over the
// stream. Next advances to the next input token and reports whether one is
// available:
//
//	s := json5.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// When Next returns false, use Err to distinguish the end of input (nil)
// from an I/O or lexical error:
//
//	if s.Err() != nil {
//	   log.Fatalf("Scanning failed: %v", s.Err())
//	}
//
// # Streaming
//
// The Stream type implements an event-driven stream parser.  The parser
// works by calling methods on a Handler value to report the structure of the
// input. In case of error, parsing is terminated and an error of concrete
// type [*SyntaxError] is returned.
//
// Construct a Stream from an io.Reader, and call its Parse method. Parse
// returns nil if the input was fully processed without error. If a Handler
// method reports an error, parsing stops and that error is returned.
//
//	s := json5.NewStream(input)
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// To parse a single value from the front of the input, call ParseOne. This
// method returns io.EOF if no further values are available.
//
// Comments and trailing commas are part of the JSON5 grammar and are always
// accepted; the parser discards comment tokens unless the handler implements
// the optional [CommentHandler] interface.
//
// # Handlers
//
// The Handler interface accepts parser events from a Stream. The methods of
// a handler correspond to the syntax of JSON5 values:
//
//	JSON5 type | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | key: value
//	value      | Value                     | true, false, null, number, string
//	--         | EndOfInput                | end of input
//
// Each method is passed an Anchor value that can be used to retrieve
// location and type information. The Anchor passed to a handler method is
// only valid for the duration of that method call; the handler must copy any
// data it needs to retain beyond the lifetime of the call.
//
// The parser ensures that corresponding Begin and End methods are correctly
// paired, or that a SyntaxError is reported.
package json5
