package client

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that the addressed event or item does not exist on
// the collaborator. Wrapped inside a FetchError; test with errors.Is.
var ErrNotFound = errors.New("not found")

// FetchError reports a failed call against the goods API: a transport
// problem, an authorization failure, or an unexpected status. Retry-able
// from the caller's point of view; local editing state is never touched.
type FetchError struct {
	Op     string // the failed operation, e.g. "list items"
	Status int    // HTTP status, 0 for transport errors
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// UploadError reports a failed receipt upload or extraction.
type UploadError struct {
	Status int
	Err    error
}

func (e *UploadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("receipt upload: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("receipt upload: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
