// Package invokers holds helpers shared by the invoker implementations in its
// subpackages. Each subpackage implements [driven.Invoker] for one external
// service and exposes its metadata and builder for registration with the
// InvokerFactory at startup.
//
// Every invoker follows the same shape:
//
//   - required parameters are checked once, when the invoker is built
//   - input is validated before any network call
//   - every failure is built through the failure package
//   - a suspension is returned to the caller, never slept on
package invokers
