package core

import (
	"errors"
)

// The four outcomes a caller has to tell apart. None of them is fatal,
// a failing call fails that one operation and nothing else. The backend
// maps them to 403, 409 and 422 responses.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalid           = errors.New("invalid input")
	ErrStale             = errors.New("asset was modified concurrently")
)

var ErrEmptyPassword = errors.New("refusing to set empty password")
