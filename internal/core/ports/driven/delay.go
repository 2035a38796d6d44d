package driven

import "time"

// DelayProvider supplies the delay attached to a suspension.
// Injected so tests can use deterministic values.
type DelayProvider interface {
	NextDelay() time.Duration
}
