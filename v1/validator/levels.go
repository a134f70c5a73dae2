package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLevel is returned for unknown validation level names.
var ErrInvalidLevel = errors.New("validator: invalid validation level")

// Level is a validation strictness. Each level includes every check of the
// levels below it.
type Level int

const (
	// Basic checks that the value is a function and inspects its signature.
	Basic Level = iota

	// Standard adds parameter and result type checks.
	Standard

	// Strict adds source analysis and capability review.
	Strict

	// Paranoid adds probe calls with edge-case inputs.
	Paranoid
)

func (l Level) String() string {
	switch l {
	case Basic:
		return "basic"
	case Standard:
		return "standard"
	case Strict:
		return "strict"
	case Paranoid:
		return "paranoid"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel converts a level name, case-insensitively. The empty string is Standard.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return Basic, nil
	case "", "standard":
		return Standard, nil
	case "strict":
		return Strict, nil
	case "paranoid":
		return Paranoid, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}
