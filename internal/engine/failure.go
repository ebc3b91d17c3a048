// Package engine implements the participation consistency core: join, quit,
// create and delete flows that keep the activity, profile and group stores
// mutually consistent through ordered steps with compensating actions.
package engine

import (
	"errors"
	"fmt"
)

// FailureKind classifies terminal failures returned by engine operations.
type FailureKind string

const (
	// FailureValidation marks an unmet precondition, e.g. "activity is full".
	FailureValidation FailureKind = "validation"
	// FailureNotFound marks a missing activity, group or profile.
	FailureNotFound FailureKind = "not_found"
	// FailureStore wraps an underlying read or write error.
	FailureStore FailureKind = "store"
	// FailureCompensation marks a rollback step that itself failed. It is
	// logged alongside the triggering failure, never returned in its place.
	FailureCompensation FailureKind = "compensation"
)

// Failure is the single terminal error value of every engine operation.
type Failure struct {
	Kind   FailureKind
	Reason string
	Cause  error
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %v", f.Reason, f.Cause)
	}
	return f.Reason
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// AsFailure extracts a Failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func validationFailure(reason string) *Failure {
	return &Failure{Kind: FailureValidation, Reason: reason}
}

func notFoundFailure(reason string) *Failure {
	return &Failure{Kind: FailureNotFound, Reason: reason}
}

func storeFailure(reason string, cause error) *Failure {
	return &Failure{Kind: FailureStore, Reason: reason, Cause: cause}
}
