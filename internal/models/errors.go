package models

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrInputValidation  = errors.New("invalid input")
	ErrModelUnavailable = errors.New("model unavailable")
	ErrDegenerateFit    = errors.New("degenerate fit")
)

// ValidationKind narrows an InputValidationError for callers that map it to a response.
type ValidationKind string

const (
	KindMalformed    ValidationKind = "malformed"
	KindOutOfDomain  ValidationKind = "out_of_domain"
	KindInvalidRange ValidationKind = "invalid_range"
)

// InputValidationError is a caller-side mistake: out-of-domain, malformed or inconsistent input.
type InputValidationError struct {
	Kind   ValidationKind
	Field  string
	Value  interface{}
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s (got: %v)", e.Kind, e.Field, e.Reason, e.Value)
}

func (e *InputValidationError) Is(target error) bool { return target == ErrInputValidation }

func NewValidationError(kind ValidationKind, field, reason string, value interface{}) error {
	return errors.WithStack(&InputValidationError{Kind: kind, Field: field, Value: value, Reason: reason})
}

// OutOfDomain is a validation error for a value outside the accepted business bounds.
func OutOfDomain(field string, value, min, max float64) error {
	return NewValidationError(KindOutOfDomain, field, fmt.Sprintf("must be between %g and %g", min, max), value)
}

// InvalidRange is a validation error for a malformed prediction range request.
func InvalidRange(reason string, value interface{}) error {
	return NewValidationError(KindInvalidRange, "range", reason, value)
}

// ModelUnavailableError means no fitted model has been persisted yet.
type ModelUnavailableError struct {
	Reason string
}

func (e *ModelUnavailableError) Error() string {
	if e.Reason == "" {
		return "model unavailable: run the trainer first"
	}
	return "model unavailable: " + e.Reason
}

func (e *ModelUnavailableError) Is(target error) bool { return target == ErrModelUnavailable }

func NewModelUnavailableError(reason string) error {
	return errors.WithStack(&ModelUnavailableError{Reason: reason})
}

// DegenerateFitError reports training data that cannot determine a slope.
type DegenerateFitError struct {
	Samples   int
	DistinctX int
}

func (e *DegenerateFitError) Error() string {
	return fmt.Sprintf("cannot fit slope: %d samples with %d distinct x values (need at least 2)", e.Samples, e.DistinctX)
}

func (e *DegenerateFitError) Is(target error) bool { return target == ErrDegenerateFit }

func NewDegenerateFitError(samples, distinctX int) error {
	return errors.WithStack(&DegenerateFitError{Samples: samples, DistinctX: distinctX})
}
