package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrTransport marks every fetch that did not produce a 2xx document.
	ErrTransport = errors.New("transport failure")

	// ErrNoCategories is returned verbatim to callers; its text is part of the public contract.
	ErrNoCategories = errors.New("No categories found") //nolint:staticcheck // exact message is relied upon

	ErrNoProductData  = errors.New("no product data found")
	ErrMissingField   = errors.New("required field missing")
	ErrMalformedField = errors.New("malformed field value")
	ErrSKUMismatch    = errors.New("sku mismatch")
	ErrEmptyPage      = errors.New("listing page has a next page but no products")
	ErrPageLimit      = errors.New("page limit exceeded")
	ErrNoFilters      = errors.New("at least one filter is required")
	ErrInvalidSKU     = errors.New("sku must be a positive integer")
	ErrInvalidURL     = errors.New("invalid URL")
)

// FetchError wraps errors that occur during fetching, including non-2xx responses.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTransport) match any FetchError.
func (e *FetchError) Is(target error) bool { return target == ErrTransport }

// ParseError wraps errors that occur while turning a body into a document.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldError reports a single field that was absent or failed typed parsing.
// Err is ErrMissingField or ErrMalformedField, optionally wrapping the cause.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("field %q (value %q): %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// MissingField builds a FieldError for an absent required field.
func MissingField(field string) *FieldError {
	return &FieldError{Field: field, Err: ErrMissingField}
}

// MalformedField builds a FieldError for a value that failed typed parsing.
func MalformedField(field, value string, cause error) *FieldError {
	err := ErrMalformedField
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrMalformedField, cause)
	}
	return &FieldError{Field: field, Value: value, Err: err}
}

// SKUMismatchError is returned when a detail page describes a different product.
type SKUMismatchError struct {
	Expected int
	Got      int
}

func (e *SKUMismatchError) Error() string {
	return fmt.Sprintf("sku mismatch: requested %d, page shows %d", e.Expected, e.Got)
}

func (e *SKUMismatchError) Is(target error) bool { return target == ErrSKUMismatch }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PipelineError wraps errors raised by an export middleware.
type PipelineError struct {
	Stage  string
	ItemID string
	Err    error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q (item %s): %v", e.Stage, e.ItemID, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
