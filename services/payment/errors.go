package payment

import (
	"errors"
	"fmt"
)

// ErrInternal signals a store failure or timeout. The failed operation leaves
// no partial session state behind.
var ErrInternal = errors.New("payment service unavailable")

// ValidationError reports the specific card field rule that was violated.
// It is raised before any session is created.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
