package lua

import "errors"

// Errors for Lua extensions.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrUnknownEvent is returned by ks.on for an unknown event name.
	ErrUnknownEvent = errors.New("unknown event")
)
