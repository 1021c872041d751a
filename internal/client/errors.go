package client

import (
	"errors"
	"fmt"
)

// RequestError is a non-2xx response from the backend.
// Error returns the backend's detail verbatim so it can be shown to the user.
type RequestError struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// TransportError is a network failure or a response that could not be decoded
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRequestError returns true if err carries a backend error response
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// IsTransportError returns true if the request never produced a usable response
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusCode returns the HTTP status of a RequestError, or 0
func StatusCode(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
