// Package failure builds categorised invocation failures.
//
// Every invoker reports failures through a Builder so that each failure
// carries exactly one domain.ErrorCategory, a raw message, an optional cause
// and at most one upstream source error. Classify applies the shared HTTP
// status policy and FromTransport maps transport errors to categories.
package failure
