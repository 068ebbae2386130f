package board

import "errors"

// Sentinel errors for the operation set. Callers test with errors.Is.
var (
	// ErrNotFound reports a referenced board/column/agent/task id that
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation reports a structurally forbidden mutation:
	// deleting a system column, cross-board column references, negative
	// column positions.
	ErrInvalidOperation = errors.New("invalid operation")
)
