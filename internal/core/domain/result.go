package domain

import (
	"fmt"
	"time"
)

// ResultKind tags the variant held by a Result.
type ResultKind int

const (
	// KindCompleted is terminal success.
	KindCompleted ResultKind = iota

	// KindSuspended asks the caller to wait and re-invoke with the continuation.
	KindSuspended

	// KindFailed is terminal failure.
	KindFailed
)

// String returns the kind name.
func (k ResultKind) String() string {
	switch k {
	case KindCompleted:
		return "completed"
	case KindSuspended:
		return "suspended"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one invocation.
// Exactly one of the variant field groups is meaningful, selected by Kind.
type Result struct {
	Kind ResultKind

	// Completed.
	Body  Document
	Empty bool

	// Suspended.
	DelayMillis  int64
	Continuation Document

	// Failed.
	Failure *Failure
}

// Completed creates a terminal success. empty flags "no matching record".
func Completed(body Document, empty bool) Result {
	return Result{Kind: KindCompleted, Body: body, Empty: empty}
}

// Suspended creates a suspension request.
func Suspended(delay time.Duration, continuation Document) Result {
	return Result{
		Kind:         KindSuspended,
		DelayMillis:  delay.Milliseconds(),
		Continuation: continuation,
	}
}

// Failed creates a terminal failure from f.
func Failed(f *Failure) Result {
	return Result{Kind: KindFailed, Failure: f}
}

// Delay returns the requested suspension delay.
func (r Result) Delay() time.Duration {
	return time.Duration(r.DelayMillis) * time.Millisecond
}

// IsTerminal returns true for completed and failed results.
func (r Result) IsTerminal() bool {
	return r.Kind != KindSuspended
}

// Err returns the failure as an error, or nil when the result is not failed.
func (r Result) Err() error {
	if r.Kind != KindFailed || r.Failure == nil {
		return nil
	}
	return r.Failure
}

// ParseResultKind returns the kind named by s.
func ParseResultKind(s string) (ResultKind, error) {
	switch s {
	case "completed":
		return KindCompleted, nil
	case "suspended":
		return KindSuspended, nil
	case "failed":
		return KindFailed, nil
	default:
		return 0, fmt.Errorf("result kind %q: %w", s, ErrInvalidInput)
	}
}
