package fixtures

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported seed file format")
	ErrLoadSeed          = errors.New("load seed failed")
	ErrDuplicateLeadID   = errors.New("duplicate lead id")
	ErrEmptyLeadID       = errors.New("lead without id")
)
