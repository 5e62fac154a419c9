package errors

import (
	"errors"
	"fmt"
)

// ConflictError reports that a submitted value collided with an existing
// record, attributed to the form field that caused it.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Field, e.Message)
}

// AsConflict unwraps err into a ConflictError when it is one.
func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
