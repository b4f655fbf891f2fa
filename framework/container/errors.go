package container

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("container: entry not found")

	// ErrResolution is matched by every ResolutionError.
	ErrResolution = errors.New("container: resolution failed")

	// ErrCyclicDependency is the cause of a ResolutionError raised when an
	// id is requested again while it is still being built.
	ErrCyclicDependency = errors.New("cyclic dependency")
)

// NotFoundError is returned by Get when neither a binding nor a cached
// instance exists for the id. Make never returns it for the id it was asked
// for, since Make binds unknown ids to themselves.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("container: the type/class [%s] does not exist in the container", e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ResolutionError covers every other failure: unknown or non-instantiable
// types, unbound parameters, cycles and constructor errors.
type ResolutionError struct {
	ID        string
	Parameter string
	Reason    string
	Cause     error
}

func (e *ResolutionError) Error() string {
	msg := "container: cannot resolve [" + e.ID + "]"
	if e.Parameter != "" {
		msg += fmt.Sprintf(" (parameter [%s])", e.Parameter)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ResolutionError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrResolution.
func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }
