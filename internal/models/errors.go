package models

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrReferential = errors.New("referenced record does not exist")
)

// NotFoundError reports an id that does not resolve to a row.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports a required field that is blank or too long.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s %s", e.Entity, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ReferentialError reports a write that points at a user, post or tag that does
// not exist.
type ReferentialError struct {
	Entity string
	ID     int64
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("referenced %s %d does not exist", e.Entity, e.ID)
}

func (e *ReferentialError) Is(target error) bool { return target == ErrReferential }
