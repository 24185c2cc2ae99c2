package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("document not found")
	ErrStoreUnavailable   = errors.New("document store unavailable")
	ErrValidation         = errors.New("validation failed")
	ErrMalformedReference = errors.New("malformed reference")
	ErrProjectFailure     = errors.New("project resolution failed")
	ErrTimeout            = errors.New("fetch cycle timed out")
	ErrCancelled          = errors.New("fetch cycle cancelled")
	ErrRunNotFound        = errors.New("cycle run not found")
)

// ValidationError describes a document that lacks a required field or holds an
// uncoercible value.
type ValidationError struct {
	Kind       EntityKind
	EntityID   string
	Collection string
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s/%s: field %q %s", e.Kind, e.Collection, e.EntityID, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// FetchError is the single terminal error of a fetch cycle.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
