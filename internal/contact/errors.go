package contact

import (
	"errors"
	"fmt"
)

// ValidationError reports input the directory refuses to store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports that no record matches a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contact %q not found", e.Name)
}

// DuplicateError reports an add whose name already exists under
// case-insensitive comparison.
type DuplicateError struct {
	Name     string
	Existing string // stored spelling of the colliding name
}

func (e *DuplicateError) Error() string {
	if e.Existing != "" && e.Existing != e.Name {
		return fmt.Sprintf("contact %q already exists as %q", e.Name, e.Existing)
	}
	return fmt.Sprintf("contact %q already exists", e.Name)
}

// PersistenceError wraps a store failure.
//
// Op is "load" or "save".
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation returns true if err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDuplicate returns true if err is or wraps a DuplicateError.
func IsDuplicate(err error) bool {
	var de *DuplicateError
	return errors.As(err, &de)
}

// IsPersistence returns true if err is or wraps a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
