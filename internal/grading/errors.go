package grading

import "errors"

var (
	// ErrInvalidInput means the request is missing a field or the answer is
	// not a number.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionNotFound means session_id does not refer to a stored problem.
	ErrSessionNotFound = errors.New("problem session not found")
)
