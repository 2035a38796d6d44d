package failure

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

// Builder accumulates the parts of a failure.
type Builder struct {
	f domain.Failure
}

// New starts a failure of the given category.
func New(category domain.ErrorCategory) *Builder {
	return &Builder{f: domain.Failure{Category: category}}
}

// Internal starts an InternalError wrapping err.
func Internal(err error) *Builder {
	b := New(domain.CategoryInternal)
	if err != nil {
		b.Raw(err.Error()).Cause(err)
	}
	return b
}

// Validation starts a RequestParameterValidationError with msg.
func Validation(msg string) *Builder {
	return New(domain.CategoryRequestParameterValidation).Raw(msg)
}

// Raw sets the raw error message.
func (b *Builder) Raw(msg string) *Builder {
	b.f.Message = msg
	return b
}

// Rawf sets a formatted raw error message.
func (b *Builder) Rawf(format string, args ...any) *Builder {
	return b.Raw(fmt.Sprintf(format, args...))
}

// Describe sets the longer description.
func (b *Builder) Describe(desc string) *Builder {
	b.f.Description = desc
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.f.Cause = err
	return b
}

// Source attaches the upstream error payload. A later call replaces an
// earlier one.
func (b *Builder) Source(code, detail string) *Builder {
	b.f.Source = &domain.SourceError{Code: code, Detail: detail}
	return b
}

// Category returns the category being built.
func (b *Builder) Category() domain.ErrorCategory {
	return b.f.Category
}

// Err returns the failure. An InternalError without a cause gets one built
// from its message.
func (b *Builder) Err() *domain.Failure {
	f := b.f
	if f.Category == domain.CategoryInternal && f.Cause == nil {
		msg := f.Message
		if msg == "" {
			msg = "unexpected internal error"
		}
		f.Cause = errors.New(msg)
	}
	if f.Source != nil {
		src := *f.Source
		f.Source = &src
	}
	return &f
}

// Build returns the failure as a Failed result.
func (b *Builder) Build() domain.Result {
	return domain.Failed(b.Err())
}
