package document

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("financial document not found")
	ErrConflict     = errors.New("financial document was modified concurrently")
	ErrInvalidState = errors.New("financial document is not in a state that allows this change")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
