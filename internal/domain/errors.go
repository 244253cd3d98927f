package domain

import "errors"

var (
	// ErrModelNotFound is returned when no model matches the requested document title.
	ErrModelNotFound = errors.New("model not found")
	// ErrComponentCycle is returned when a component refers back to a model on its own path.
	ErrComponentCycle = errors.New("component cycle")
	// ErrEmptyGeneration is returned when the generator produced no usable text.
	ErrEmptyGeneration = errors.New("generator returned empty content")
	// ErrIncompleteCoverage is returned when a VCRM has uncovered requirements.
	ErrIncompleteCoverage = errors.New("incomplete requirement coverage")
)
