package service

import "errors"

// Sentinel kinds returned by the service.
var (
	ErrInvalidAction = errors.New("invalid action")
	ErrBackpressure  = errors.New("backpressure")
	ErrInvalidLimit  = errors.New("invalid limit")
	ErrUnknownField  = errors.New("unknown distribution field")
	ErrNotStarted    = errors.New("service not started")
)
