package continuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomDelay(t *testing.T) {
	t.Run("stays within bounds", func(t *testing.T) {
		d := NewRandomDelay()
		for range 1000 {
			got := d.NextDelay()
			assert.GreaterOrEqual(t, got, DefaultMinDelay)
			assert.LessOrEqual(t, got, DefaultMaxDelay)
			assert.Zero(t, got%time.Millisecond)
		}
	})

	t.Run("seeded provider is deterministic", func(t *testing.T) {
		a := NewSeededDelay(time.Second, 2*time.Second, 42)
		b := NewSeededDelay(time.Second, 2*time.Second, 42)

		for range 10 {
			assert.Equal(t, a.NextDelay(), b.NextDelay())
		}
	})

	t.Run("degenerate range", func(t *testing.T) {
		d := &RandomDelay{Min: time.Second, Max: time.Second}

		assert.Equal(t, time.Second, d.NextDelay())
	})
}

func TestFixedDelay(t *testing.T) {
	assert.Equal(t, 3*time.Second, FixedDelay(3*time.Second).NextDelay())
}
