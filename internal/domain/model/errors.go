package model

import (
	"errors"
	"fmt"
)

// ViolationKind classifies why an input was rejected.
type ViolationKind string

const (
	ViolationInvalidParameter ViolationKind = "invalid_parameter"
	ViolationUnsupportedValue ViolationKind = "unsupported_value"
	ViolationEmptyTimeline    ViolationKind = "empty_timeline"
	ViolationDegeneratePeriod ViolationKind = "degenerate_period"
	ViolationOverlap          ViolationKind = "overlap"
	ViolationGap              ViolationKind = "gap"
	ViolationMissingCoverage  ViolationKind = "missing_coverage"
)

// ValidationError reports input rejected before any computation ran.
type ValidationError struct {
	Kind    ViolationKind
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("validation failed: %s", e.Kind)
	}
	return fmt.Sprintf("validation failed (%s): %s", e.Kind, e.Message)
}

// Is matches another ValidationError of the same kind. A target without a
// kind matches every validation error.
func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == "" || t.Kind == e.Kind
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(kind ViolationKind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is.
var (
	ErrValidation            = &ValidationError{}
	ErrInvalidParameter      = &ValidationError{Kind: ViolationInvalidParameter}
	ErrUnsupportedValue      = &ValidationError{Kind: ViolationUnsupportedValue}
	ErrRateTimelineEmpty     = &ValidationError{Kind: ViolationEmptyTimeline}
	ErrRatePeriodDegenerate  = &ValidationError{Kind: ViolationDegeneratePeriod}
	ErrRateTimelineOverlap   = &ValidationError{Kind: ViolationOverlap}
	ErrRateTimelineGap       = &ValidationError{Kind: ViolationGap}
	ErrRateTimelineUncovered = &ValidationError{Kind: ViolationMissingCoverage}
	ErrNegativeAmortization  = errors.New("installment does not cover interest (negative amortization)")
	ErrBenchmarkNotFound     = errors.New("benchmark rate timeline not found")
)
