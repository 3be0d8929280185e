package shaper

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrBadRequest matches errors caused by the content of a request
var ErrBadRequest = errors.New("bad request")

// RequestError is an error caused by the content of a request, its message is meant for the user
type RequestError struct {
	msg string
}

// Error implements error interface
func (e *RequestError) Error() string {
	return e.msg
}

// Is matches ErrBadRequest
func (e *RequestError) Is(target error) bool {
	return target == ErrBadRequest
}

func badRequest(format string, args ...interface{}) error {
	return &RequestError{msg: fmt.Sprintf(format, args...)}
}

// IsBadRequest returns true if err was caused by the content of a request
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}
