package api

import (
	"errors"
	"fmt"
)

// RequestError is returned for any failed call: a non-2xx status, a
// transport failure, or a body that could not be decoded.
type RequestError struct {
	Method string
	Path   string
	Status int
	// Body is the raw response text, shown to the user as is.
	Body string
	Err  error
}

func (e *RequestError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
