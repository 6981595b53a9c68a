package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound    = errors.New("lead not found")
	ErrInvalidLead = errors.New("invalid lead")
	ErrStoreClosed = errors.New("store closed")
)
