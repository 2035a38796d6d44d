// Package domain defines the core entities shared by every invoker.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: The canonical tree-shaped request/response payload
//   - Result: The tagged outcome of one invocation (completed, suspended, failed)
//   - Failure: A categorised failure carrying provenance of its cause
//   - ContinuationState: The typed view of a continuation token
//   - InvokerType: Registry metadata describing a connector
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
