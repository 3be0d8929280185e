package netem

import (
	"fmt"
	"strings"
)

const (
	// Values for ValidationErrorKind
	OutOfRange ValidationErrorKind = iota + 1
	UnknownField
	NoDeviceSelected
	MalformedPayload
)

// ValidationErrorKind classifies a ValidationError
type ValidationErrorKind int

// String returns the kind name
func (k ValidationErrorKind) String() string {
	switch k {
	case OutOfRange:
		return "out of range"
	case UnknownField:
		return "unknown field"
	case NoDeviceSelected:
		return "no device selected"
	case MalformedPayload:
		return "malformed payload"
	}
	return fmt.Sprintf("ValidationErrorKind(%d)", int(k))
}

var (
	// ErrOutOfRange matches any ValidationError of kind OutOfRange
	ErrOutOfRange = &ValidationError{Kind: OutOfRange}
	// ErrUnknownField matches any ValidationError of kind UnknownField
	ErrUnknownField = &ValidationError{Kind: UnknownField}
	// ErrNoDeviceSelected matches any ValidationError of kind NoDeviceSelected
	ErrNoDeviceSelected = &ValidationError{Kind: NoDeviceSelected}
	// ErrMalformedPayload matches any ValidationError of kind MalformedPayload
	ErrMalformedPayload = &ValidationError{Kind: MalformedPayload}
)

// ValidationError is returned by Model operations. All of them are recoverable.
type ValidationError struct {
	Kind      ValidationErrorKind
	Direction Direction
	// Field is the dotted field path or wire key involved, if any
	Field  string
	Reason string
}

// Error implements error interface
func (e *ValidationError) Error() string {
	if e.Kind == NoDeviceSelected {
		if e.Direction == Single {
			return "Please select a device"
		}
		return fmt.Sprintf("Please select an %s device", e.Direction)
	}

	parts := []string{e.Kind.String()}
	target := e.Field
	if e.Direction != Single && target != "" {
		target = string(e.Direction) + "." + target
	} else if e.Direction != Single {
		target = string(e.Direction)
	}
	if target != "" {
		parts = append(parts, target)
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	return strings.Join(parts, ": ")
}

// Is reports whether target is a ValidationError of the same kind
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func outOfRange(dir Direction, path, reason string) error {
	return &ValidationError{Kind: OutOfRange, Direction: dir, Field: path, Reason: reason}
}

func unknownField(dir Direction, path, reason string) error {
	return &ValidationError{Kind: UnknownField, Direction: dir, Field: path, Reason: reason}
}

func malformed(dir Direction, key, reason string) error {
	return &ValidationError{Kind: MalformedPayload, Direction: dir, Field: key, Reason: reason}
}
