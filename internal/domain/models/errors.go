package models

import (
	"errors"
	"fmt"
)

// ErrEntryNotFound is returned by repositories when a log entry does not
// exist for the given tenant.
var ErrEntryNotFound = errors.New("log entry not found")

// ErrTemplateNotFound is returned by repositories when a meal template does
// not exist for the given tenant.
var ErrTemplateNotFound = errors.New("meal template not found")

// NotFoundError reports that a product identifier or barcode is absent from
// the attempted catalog(s). Recoverable; callers map it to a not-found
// condition.
type NotFoundError struct {
	ProductID string
	Source    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %q not found in source %q", e.ProductID, e.Source)
}

// ExternalAPIError reports a transport failure, non-success status or
// malformed payload from a catalog. Never silently retried within the core.
type ExternalAPIError struct {
	Source string
	Detail string
	Err    error
}

func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external api error from %q: %s", e.Source, e.Detail)
}

func (e *ExternalAPIError) Unwrap() error {
	return e.Err
}

// ValidationError reports malformed caller input, e.g. an inverted or
// oversized date range. Raised before any I/O happens.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}
