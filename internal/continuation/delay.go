package continuation

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/custodia-labs/invokers/internal/core/ports/driven"
)

const (
	// DefaultMinDelay is the lower bound of the default random delay.
	DefaultMinDelay = 1000 * time.Millisecond

	// DefaultMaxDelay is the upper bound of the default random delay.
	DefaultMaxDelay = 35000 * time.Millisecond
)

// Ensure implementations satisfy the interface.
var (
	_ driven.DelayProvider = (*RandomDelay)(nil)
	_ driven.DelayProvider = FixedDelay(0)
)

// RandomDelay returns a whole number of milliseconds in [Min, Max].
type RandomDelay struct {
	Min time.Duration
	Max time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomDelay creates a provider over [DefaultMinDelay, DefaultMaxDelay]
// using the global generator.
func NewRandomDelay() *RandomDelay {
	return &RandomDelay{Min: DefaultMinDelay, Max: DefaultMaxDelay}
}

// NewSeededDelay creates a deterministic provider over [lo, hi].
func NewSeededDelay(lo, hi time.Duration, seed uint64) *RandomDelay {
	return &RandomDelay{
		Min: lo,
		Max: hi,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NextDelay returns the next random delay.
func (d *RandomDelay) NextDelay() time.Duration {
	lo := d.Min.Milliseconds()
	hi := d.Max.Milliseconds()
	if hi <= lo {
		return time.Duration(lo) * time.Millisecond
	}

	span := hi - lo + 1
	var n int64
	if d.rng == nil {
		n = rand.Int64N(span)
	} else {
		d.mu.Lock()
		n = d.rng.Int64N(span)
		d.mu.Unlock()
	}
	return time.Duration(lo+n) * time.Millisecond
}

// FixedDelay always returns the same delay.
type FixedDelay time.Duration

// NextDelay returns d.
func (d FixedDelay) NextDelay() time.Duration {
	return time.Duration(d)
}
