package core

import "errors"

var (
	// ErrUnauthorized is returned when the caller lacks the role a mutating
	// operation requires. It is never retried or downgraded.
	ErrUnauthorized = errors.New("caller is not an administrator")

	// ErrInvalidArgument is returned when a transfer model fails cross-field
	// validation or carries an unknown employment type. Wrapping messages
	// name the offending field and employment type.
	ErrInvalidArgument = errors.New("invalid argument")
)
