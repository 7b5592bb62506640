package model

import (
	"errors"
	"fmt"
)

// Error classes. Callers classify with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrPermission         = errors.New("permission denied")
	ErrConcurrentCreation = errors.New("a facility creation is already in progress")
	ErrNotFound           = errors.New("not found")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

// ValidationError describes bad user input on a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UnknownFlagError is returned when a flag name is not registered in a set.
type UnknownFlagError struct {
	Set  string
	Name string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown %s flag %q", e.Set, e.Name)
}

func (e *UnknownFlagError) Is(target error) bool { return target == ErrValidation }
