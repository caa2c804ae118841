package pipeline

import (
	"errors"
)

// Error kinds surfaced by the conversion boundary. Parameter problems are
// rejected here, before any core component runs; the core components
// themselves never fail on well-formed input.
var (
	// ErrInput marks unusable caller input: missing files, bad key
	// strings, out-of-range program numbers.
	ErrInput = errors.New("input error")

	// ErrConstraint marks timing tunables that violate their bounds.
	ErrConstraint = errors.New("constraint error")
)
