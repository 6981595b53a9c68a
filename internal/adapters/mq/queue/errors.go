package queue

import "errors"

// ErrFull is returned by callers that translate a rejected Enqueue.
var ErrFull = errors.New("action queue full")
