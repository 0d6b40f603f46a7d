// core/protocol/errors.go
package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncomplete is returned by derived reads while the protocol is missing
// concentrations or start volumes.
var ErrIncomplete = errors.New("titration protocol is not initialized")

// ValidationError lists every problem found in a descriptor or setter call.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid protocol: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(format string, a ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, a...))
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// IndexOutOfRangeError is returned when updating a step that does not exist.
type IndexOutOfRangeError struct {
	Step  int
	Steps int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("step %d does not exist (protocol has %d steps)", e.Step, e.Steps)
}
