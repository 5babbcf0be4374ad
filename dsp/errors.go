package dsp

import "errors"

// Errors returned by Transform when its inputs violate the engine's
// preconditions. Wrap with fmt.Errorf("%w: ...", ...) at call sites that
// have more context to add.
var (
	ErrInvalidSampleRate    = errors.New("dsp: sample rate must be positive")
	ErrEmptyFrequencies     = errors.New("dsp: frequency bank must not be empty")
	ErrNonPositiveFrequency = errors.New("dsp: frequency must be positive")
)
