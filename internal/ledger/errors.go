package ledger

import (
	"errors"
	"fmt"
)

// ValidationError reports a transaction request that cannot be saved
// as given. It is returned before anything is written.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid transaction: " + e.Reason
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ErrForbidden marks an operation on a transaction the caller does not
// own.
var ErrForbidden = errors.New("transaction belongs to another user")
