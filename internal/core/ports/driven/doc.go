// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Invoker: The invocation contract every connector implements
//   - InvokerFactory: Creates invokers from configured profiles
//   - Transport: Executes a prepared outbound request
//   - Parameters: Read-only typed configuration lookup
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - DelayProvider: Supplies suspension delays. Defaults to a bounded random range.
//   - PendingStore: Caller-side persistence of suspended chains.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or invoker package
package driven
