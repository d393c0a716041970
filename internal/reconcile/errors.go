package reconcile

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes run failures. Every code is fatal to the run;
// nothing is retried locally.
type ErrorCode string

const (
	// ErrCodeConnectivity indicates the store could not be reached or the
	// cursor failed mid-scan.
	ErrCodeConnectivity ErrorCode = "CONNECTIVITY"

	// ErrCodeDecode indicates a stored document does not match the record shape.
	ErrCodeDecode ErrorCode = "DECODE"

	// ErrCodeWrite indicates the bulk insert was rejected.
	ErrCodeWrite ErrorCode = "WRITE"
)

// Phase is the step of the run that failed.
type Phase string

const (
	PhaseLoad  Phase = "load"
	PhaseWrite Phase = "write"
)

// Error is a fatal run failure with the context needed to diagnose it.
type Error struct {
	Code  ErrorCode
	Phase Phase

	// Side and Collection identify the collection being read or written.
	Side       Side
	Collection string

	// Processed is the number of documents read before a load failure, or
	// the size of the rejected Delta for a write failure.
	Processed int

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Phase == PhaseWrite {
		return fmt.Sprintf("%s: insert %d documents into %s collection %q: %v",
			e.Code, e.Processed, e.Side, e.Collection, e.Err)
	}
	return fmt.Sprintf("%s: load %s collection %q after %d documents: %v",
		e.Code, e.Side, e.Collection, e.Processed, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConnectivityError returns true if err is or wraps a connectivity failure.
func IsConnectivityError(err error) bool {
	return hasCode(err, ErrCodeConnectivity)
}

// IsDecodeError returns true if err is or wraps a decode failure.
func IsDecodeError(err error) bool {
	return hasCode(err, ErrCodeDecode)
}

// IsWriteError returns true if err is or wraps a write failure.
func IsWriteError(err error) bool {
	return hasCode(err, ErrCodeWrite)
}

func hasCode(err error, code ErrorCode) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}
