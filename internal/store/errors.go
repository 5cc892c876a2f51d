package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken indicates a user with the email already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrDuplicateEdge indicates an edge with the same source, target, and
	// kind already exists in the workspace.
	ErrDuplicateEdge = errors.New("edge already exists")

	// ErrSelfLoop indicates an edge connecting a node to itself.
	ErrSelfLoop = errors.New("edge cannot connect a node to itself")

	// ErrCrossWorkspace indicates an edge referencing a node outside its
	// workspace.
	ErrCrossWorkspace = errors.New("edge endpoints must belong to the same workspace")
)

// isUniqueViolation reports whether err is a SQLite unique constraint
// failure on the named constraint target (e.g. "users.email").
func isUniqueViolation(err error, target string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, target)
}
