package models

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongLink is returned for a URL that is not a channel, watch-with-list or c/ link
	ErrWrongLink = errors.New("wrong link")
	// ErrMalformedResponse is returned when an API response lacks an expected field
	ErrMalformedResponse = errors.New("malformed response")
	// ErrEmptyResultExport is returned by the text exporter when nothing passed the filter
	ErrEmptyResultExport = errors.New("no videos to export")
	// ErrTransportFailure wraps network and auth errors returned by the API client
	ErrTransportFailure = errors.New("transport failure")
)

// MalformedResponseError names the operation and the missing or invalid field
type MalformedResponseError struct {
	Operation string
	Field     string
	Err       error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: field %q: %v", ErrMalformedResponse, e.Operation, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s: missing field %q", ErrMalformedResponse, e.Operation, e.Field)
}

// Is makes errors.Is(err, ErrMalformedResponse) match
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Malformed is a shorthand for building a MalformedResponseError
func Malformed(operation, field string) error {
	return &MalformedResponseError{Operation: operation, Field: field}
}
