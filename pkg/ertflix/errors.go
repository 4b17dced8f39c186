package ertflix

import (
	"fmt"
	"net/http"
)

// TransportError signals that the ERTFLIX API couldn't be reached, didn't answer in time
// or answered with a non-2xx status code.
type TransportError struct {
	Op  string
	URL string
	// Only set if the API responded
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v %v: bad HTTP response status: %v", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%v %v: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// temporary returns true for errors where a later attempt might succeed.
func (e *TransportError) temporary() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// DecodeError signals that the ERTFLIX API responded with a body that doesn't match the expected shape.
type DecodeError struct {
	Op  string
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v %v: couldn't decode response body: %v", e.Op, e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
