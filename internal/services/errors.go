package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInput         = errors.New("input error")
	ErrNotFound      = errors.New("not found")
	ErrPrecondition  = errors.New("precondition failed")
	ErrSubmission    = errors.New("submission failed")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorKind names the reviewer-facing class of a failure.
type ErrorKind string

const (
	KindInput        ErrorKind = "input"
	KindLookup       ErrorKind = "lookup"
	KindPrecondition ErrorKind = "precondition"
	KindSubmission   ErrorKind = "submission"
	KindValidation   ErrorKind = "validation"
	KindInternal     ErrorKind = "internal"
)

// Kind classifies err by the first marker it carries.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInput):
		return KindInput
	case errors.Is(err, ErrNotFound):
		return KindLookup
	case errors.Is(err, ErrPrecondition):
		return KindPrecondition
	case errors.Is(err, ErrSubmission):
		return KindSubmission
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return KindValidation
	case errors.Is(err, ErrTransient):
		// Timeouts and 5xx from the catalog surface as lookup failures.
		return KindLookup
	default:
		return KindInternal
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
