// Package memory provides in-memory implementations of the driven storage
// ports. They are used by tests and by one-shot CLI runs that do not need
// chains to survive a restart.
package memory
