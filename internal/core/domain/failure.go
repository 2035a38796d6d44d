package domain

import (
	"errors"
	"fmt"
)

// ErrorCategory is a member of the closed failure taxonomy.
// Every failed invocation carries exactly one category.
type ErrorCategory string

const (
	// CategoryRequestParameterValidation indicates empty or malformed caller input.
	CategoryRequestParameterValidation ErrorCategory = "RequestParameterValidationError"

	// CategoryMissingRequiredParameter indicates a required configuration key is absent.
	CategoryMissingRequiredParameter ErrorCategory = "MissingRequiredParameter"

	// CategoryDataConvert indicates a payload that could not be converted in either direction.
	CategoryDataConvert ErrorCategory = "DataConvertError"

	// CategoryRequestBuild indicates the request was malformed or rejected by the upstream.
	CategoryRequestBuild ErrorCategory = "RequestBuildError"

	// CategoryResponseEmpty indicates the upstream answered with an empty body.
	CategoryResponseEmpty ErrorCategory = "ResponseEmpty"

	// CategoryResponse indicates an upstream semantic failure.
	CategoryResponse ErrorCategory = "ResponseError"

	// CategoryNetwork indicates a transport-level failure.
	CategoryNetwork ErrorCategory = "NetworkError"

	// CategoryCrypto indicates a TLS or trust-material failure.
	CategoryCrypto ErrorCategory = "CryptoError"

	// CategoryInternal indicates anything unanticipated. Always wraps a cause.
	CategoryInternal ErrorCategory = "InternalError"
)

// AllCategories returns every member of the taxonomy.
func AllCategories() []ErrorCategory {
	return []ErrorCategory{
		CategoryRequestParameterValidation,
		CategoryMissingRequiredParameter,
		CategoryDataConvert,
		CategoryRequestBuild,
		CategoryResponseEmpty,
		CategoryResponse,
		CategoryNetwork,
		CategoryCrypto,
		CategoryInternal,
	}
}

// Valid returns true if c is a member of the taxonomy.
func (c ErrorCategory) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// SourceError is an upstream error payload kept verbatim for audit.
type SourceError struct {
	Code   string
	Detail string
}

// Failure is a categorised invocation failure.
// Construct it through the failure package builder, never directly in invokers.
type Failure struct {
	// Category is the taxonomy member. Callers branch on it.
	Category ErrorCategory

	// Message is the raw human-readable error.
	Message string

	// Description is an optional longer explanation.
	Description string

	// Cause is the wrapped underlying error, if any.
	Cause error

	// Source is the upstream error payload, if any.
	Source *SourceError
}

// Error implements the error interface.
func (f *Failure) Error() string {
	msg := f.Message
	if msg == "" {
		msg = f.Description
	}
	if msg == "" && f.Cause != nil {
		msg = f.Cause.Error()
	}
	if msg == "" {
		return string(f.Category)
	}
	return fmt.Sprintf("%s: %s", f.Category, msg)
}

// Unwrap returns the wrapped cause.
func (f *Failure) Unwrap() error {
	return f.Cause
}

// Is reports whether target is a Failure of the same category.
// This allows errors.Is(err, &Failure{Category: CategoryNetwork}).
func (f *Failure) Is(target error) bool {
	var t *Failure
	if !errors.As(target, &t) {
		return false
	}
	return t.Category == f.Category && t.Message == "" && t.Cause == nil
}

// CategoryOf returns the category of err if it is (or wraps) a Failure.
func CategoryOf(err error) (ErrorCategory, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Category, true
	}
	return "", false
}
