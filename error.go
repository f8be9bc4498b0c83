package insight

import (
	"errors"
	"fmt"
)

const (
	EINTERNAL       = "internal"
	EINVALID        = "invalid"
	ENOTFOUND       = "not_found"
	ENOTIMPLEMENTED = "not_implemented"

	// Codes reserved for data-integrity and statistical contract
	// violations. Valid real-world states (no assessments yet, a single
	// data point, zero sessions) are never reported through these, they
	// surface as explicit "Insufficient Data" / null output values.
	EEMPTYINPUT       = "empty_input"
	EINSUFFICIENTDATA = "insufficient_data"
	ELENGTHMISMATCH   = "length_mismatch"
	EINVALIDRECORD    = "invalid_record"
)

type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("insight error: code=%s message=%s", e.Code, e.Message)
}

func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
