package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from categorised invocation failures.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown invoker type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMissingParameter indicates a required configuration parameter is absent.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrInvalidParameter indicates a configuration parameter has the wrong type.
	ErrInvalidParameter = errors.New("invalid parameter")

	// Continuation Errors.

	// ErrInvalidContinuation indicates a continuation token that cannot be decoded.
	ErrInvalidContinuation = errors.New("invalid continuation")

	// ErrContractViolation indicates an invoker suspended after its attempts were exhausted.
	ErrContractViolation = errors.New("invocation contract violated")

	// ErrChainInFlight indicates a resume was requested for a chain already running.
	ErrChainInFlight = errors.New("chain already in flight")
)
