package store

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable is matched (via errors.Is) by every error that
// originates in the underlying database. Callers must surface it.
var ErrStorageUnavailable = errors.New("storage unavailable")

// UnavailableError records which store operation failed and why.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageUnavailable, e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is reports ErrStorageUnavailable as a match.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return err
	}
	return &UnavailableError{Op: op, Err: err}
}
