package parser

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every InvariantError.
var ErrInvariant = errors.New("parser: invariant violated")

// InvariantError reports input which violates the assumptions about
// well-formed, compiler generated names. It is raised by panicking.
type InvariantError struct {
	Input   string // Name being parsed
	Offset  int    // Byte offset of the last consumed token
	Message string // Description of the violation
}

func (e *InvariantError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("parser: invariant violated at offset %d of %q: %s", e.Offset, e.Input, e.Message)
	}
	return fmt.Sprintf("parser: invariant violated: %s", e.Message)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }

// invariant panics with an *InvariantError if cond does not hold.
func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(&InvariantError{Message: fmt.Sprintf(format, args...)})
	}
}
