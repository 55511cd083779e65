package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for scene operations.
var (
	// ErrBodyNotFound indicates a handle that names no live body.
	ErrBodyNotFound = errors.New("dynamo: body not found")

	// ErrUnstable indicates the physics step produced a NaN or Inf transform.
	ErrUnstable = errors.New("dynamo: simulation unstable (non-finite transform)")

	// ErrInvalidShape indicates collision geometry the engine cannot accept.
	ErrInvalidShape = errors.New("dynamo: invalid collision shape")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrClosed indicates use of a scene after teardown.
	ErrClosed = errors.New("dynamo: scene closed")
)

// StepError wraps a failure of the physics step with frame context.
type StepError struct {
	Frame   uint64
	Body    BodyID
	Wrapped error
}

func (e *StepError) Error() string {
	if e.Body != NoBody {
		return fmt.Sprintf("frame %d: body %d: %v", e.Frame, e.Body, e.Wrapped)
	}
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
