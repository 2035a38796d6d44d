// Package services implements the driving port interfaces.
// Services contain the core invocation logic and orchestrate
// calls to driven ports (adapters).
//
//   - InvokerFactory and InvokerRegistry: the catalogue of invoker types
//   - InvocationService: single calls with contract enforcement and metrics
//   - Dispatcher: caller-side driver that resumes suspended chains
//
// Services are pure Go with no CGO dependencies.
package services
