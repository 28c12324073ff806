package config

import "errors"

var (
	// ErrMissingKey is returned when a key required by the selected services is unset.
	ErrMissingKey = errors.New("missing configuration key")

	// ErrInvalidValue is returned when a key holds a value outside its allowed range.
	ErrInvalidValue = errors.New("invalid configuration value")
)
