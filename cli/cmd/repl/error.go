package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")
	ErrUsage        = errors.New("usage")
	ErrUnknown      = errors.New("unknown command")
)
