package features

import "fmt"

// ParseError reports a raw cell that does not parse in its expected format.
type ParseError struct {
	Row    int // 1-based CSV line, header is line 1
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: parsing %s %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ShapeError reports a serving-time input that does not line up with the
// fixed feature order.
type ShapeError struct {
	Row    int // 0 for the header or a single vector
	Want   int
	Got    int
	Detail string
}

func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("expected %d feature columns, got %d", e.Want, e.Got)
	if e.Detail != "" {
		msg = e.Detail
	}
	if e.Row > 0 {
		return fmt.Sprintf("line %d: %s", e.Row, msg)
	}
	return msg
}

// UnknownGenderError reports a gender value outside the recognized set.
type UnknownGenderError struct {
	Row   int
	Value string
}

func (e *UnknownGenderError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("line %d: unknown gender %q", e.Row, e.Value)
	}
	return fmt.Sprintf("unknown gender %q", e.Value)
}
