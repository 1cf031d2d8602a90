package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Precondition errors on raw ecological inputs
	ErrShapeMismatch   = errors.New("result arrays disagree on extents")
	ErrDegenerateInput = errors.New("degenerate input")

	// Configuration errors
	ErrConfigInvalid       = errors.New("invalid configuration")
	ErrUnsupportedGrouping = errors.New("unsupported taxa group count")
	ErrExpertPoolTooSmall  = errors.New("expert pool too small for disjoint metric draws")

	// Cost sampling errors
	ErrSamplingInconsistent = errors.New("cost model sample size inconsistent with design")
	ErrNonFiniteCost        = errors.New("cost model produced non-finite value")
	ErrStateCarry           = errors.New("incremental setup cost requires a prior intervention year")
	ErrFactorMissing        = errors.New("required factor column missing")

	// Persistence / lookup errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)
)

// Error constructors with context

func NewShapeMismatchError(array string, got, want int) error {
	return fmt.Errorf("%w: %s has %d entries, want %d", ErrShapeMismatch, array, got, want)
}

func NewDegenerateInputError(what string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateInput, what)
}

func NewConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfigInvalid, field, reason)
}

func NewSamplingError(model string, got, want int) error {
	return fmt.Errorf("%w: %s returned %d rows, want %d", ErrSamplingInconsistent, model, got, want)
}

// Error checking helpers

func IsShapeMismatch(err error) bool {
	return errors.Is(err, ErrShapeMismatch)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid)
}

func IsSamplingError(err error) bool {
	return errors.Is(err, ErrSamplingInconsistent)
}
