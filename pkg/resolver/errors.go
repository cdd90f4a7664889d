package resolver

import "github.com/pkg/errors"

var (
	// ErrInvalidIdentifier is returned for identifiers which could escape configured roots
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrNotFound is returned when no candidate exists
	ErrNotFound = errors.New("image not found")
)
