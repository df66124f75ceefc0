package types

import (
	"errors"
	"fmt"
)

// SpecialistErrorKind classifies unrecoverable specialist failures
type SpecialistErrorKind string

const (
	// ErrKindUnsafeQuery means a generated query was rejected locally
	// before dispatch because it was not read-only
	ErrKindUnsafeQuery SpecialistErrorKind = "UnsafeQuery"

	// ErrKindUpstreamUnavailable means the retrieval/query service stayed
	// unreachable after the declared fallback path
	ErrKindUpstreamUnavailable SpecialistErrorKind = "UpstreamUnavailable"
)

// SpecialistError is the only error shape a specialist lets escape its
// boundary. Empty results are not errors and never produce one.
type SpecialistError struct {
	Specialist SpecialistID
	Kind       SpecialistErrorKind
	Err        error
}

func (e *SpecialistError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s specialist: %s: %v", e.Specialist, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s specialist: %s", e.Specialist, e.Kind)
}

func (e *SpecialistError) Unwrap() error {
	return e.Err
}

// NewUnsafeQueryError reports a generated statement rejected before dispatch
func NewUnsafeQueryError(specialist SpecialistID, err error) *SpecialistError {
	return &SpecialistError{Specialist: specialist, Kind: ErrKindUnsafeQuery, Err: err}
}

// NewUpstreamUnavailableError reports an upstream failure that survived the
// declared fallback
func NewUpstreamUnavailableError(specialist SpecialistID, err error) *SpecialistError {
	return &SpecialistError{Specialist: specialist, Kind: ErrKindUpstreamUnavailable, Err: err}
}

// RouterUnavailableError means the classification model call failed. Wrong
// routing is worse than a visible failure, so the router never silently
// defaults to a specialist.
type RouterUnavailableError struct {
	Err error
}

func (e *RouterUnavailableError) Error() string {
	return fmt.Sprintf("router unavailable: %v", e.Err)
}

func (e *RouterUnavailableError) Unwrap() error {
	return e.Err
}

// IsRouterUnavailable reports whether err is a RouterUnavailableError
func IsRouterUnavailable(err error) bool {
	var re *RouterUnavailableError
	return errors.As(err, &re)
}

// SpecialistErrKind extracts the kind from a SpecialistError chain, or ""
func SpecialistErrKind(err error) SpecialistErrorKind {
	var se *SpecialistError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
