package ply

import (
	"fmt"
)

// UnsupportedFormatError is returned when the header's format line is
// missing or names an encoding that can not be decoded.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Format == "" {
		return "unsupported ply format: no format declaration in header"
	}
	return fmt.Sprintf("unsupported ply format: %q", e.Format)
}

// MalformedHeaderError is returned when the header is structurally
// broken: no magic line, no end_header, no vertex element, or a line that
// can't be parsed.
type MalformedHeaderError struct {
	Line   int
	Reason string
	cause  error
}

func (e *MalformedHeaderError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed ply header (line %d): %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed ply header: %s", e.Reason)
}

func (e *MalformedHeaderError) Unwrap() error { return e.cause }

// MissingPositionFieldError is returned when the vertex element lacks one
// of the x, y or z properties.
type MissingPositionFieldError struct {
	Field string
}

func (e *MissingPositionFieldError) Error() string {
	return fmt.Sprintf("vertex element has no %q property", e.Field)
}

// TruncatedDataError is returned when the body holds fewer vertices than
// the header declares.
//
// The underlying read error (if any) can be accessed via errors.Unwrap.
type TruncatedDataError struct {
	Declared int
	Decoded  int
	cause    error
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("truncated vertex data: header declares %d vertices, only %d decoded", e.Declared, e.Decoded)
}

func (e *TruncatedDataError) Unwrap() error { return e.cause }

// DecodeError is returned when a text vertex token can't be parsed as a
// number.
type DecodeError struct {
	Vertex   int
	Property string
	Token    string
	cause    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("vertex %d: property %q: invalid value %q", e.Vertex, e.Property, e.Token)
}

func (e *DecodeError) Unwrap() error { return e.cause }
