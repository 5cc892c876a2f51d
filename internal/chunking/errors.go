package chunking

import "errors"

var (
	// ErrInvalidBudget is returned when a token budget is too small to hold
	// a single node with its prompt framing.
	ErrInvalidBudget = errors.New("token budget too small")

	// ErrInvalidOverlap is returned when chunk overlap is negative or not
	// smaller than the chunk size.
	ErrInvalidOverlap = errors.New("overlap must be >= 0 and smaller than chunk size")
)
