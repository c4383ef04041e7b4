package lottery

import (
	"errors"
	"fmt"
)

var (
	ErrIncomplete     = errors.New("incomplete selection")
	ErrOutOfRange     = errors.New("number out of range")
	ErrDuplicateValue = errors.New("duplicate white ball")
)

// ValidationError carries the offending field so the caller can point at it.
// Kind is one of ErrIncomplete, ErrOutOfRange or ErrDuplicateValue.
type ValidationError struct {
	Kind  error
	Field string
	Token string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field == "":
		return e.Kind.Error()
	case e.Token == "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Field)
	default:
		return fmt.Sprintf("%s: %s=%q", e.Kind, e.Field, e.Token)
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// Message is the user facing text for the error kind.
func (e *ValidationError) Message() string {
	switch e.Kind {
	case ErrIncomplete:
		return "Please enter all 6 numbers"
	case ErrOutOfRange:
		return "White balls must be 1-69 and the Powerball 1-26"
	case ErrDuplicateValue:
		return "White ball numbers must be unique"
	}
	return e.Error()
}

// KindName returns a stable identifier for the error kind.
func (e *ValidationError) KindName() string {
	switch e.Kind {
	case ErrIncomplete:
		return "Incomplete"
	case ErrOutOfRange:
		return "OutOfRange"
	case ErrDuplicateValue:
		return "DuplicateValue"
	}
	return "Unknown"
}
