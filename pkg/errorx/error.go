package errorx

import (
	"errors"
	"fmt"
)

type Error struct {
	Code    Code
	Message string

	// Detail is the machine-readable payload of the error, for example the
	// list of duplicated emails of a DuplicateReferral error.
	Detail any
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) WithDetail(detail any) Error {
	e.Detail = detail
	return e
}

// Is reports whether any error in err's chain is an Error with the given code.
func Is(err error, code Code) bool {
	var errx Error
	if !errors.As(err, &errx) {
		return false
	}

	return errx.Code == code
}

// CodeOf returns the code of err, or the Unknown code if err is not an Error.
func CodeOf(err error) Code {
	var errx Error
	if !errors.As(err, &errx) {
		return Unknown.Code
	}

	return errx.Code
}
