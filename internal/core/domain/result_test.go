package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultKind_String(t *testing.T) {
	assert.Equal(t, "completed", KindCompleted.String())
	assert.Equal(t, "suspended", KindSuspended.String())
	assert.Equal(t, "failed", KindFailed.String())
	assert.Equal(t, "unknown", ResultKind(42).String())
}

func TestCompleted(t *testing.T) {
	body := NewElement("Result", NewText("result", "1"))
	r := Completed(body, true)

	assert.Equal(t, KindCompleted, r.Kind)
	assert.True(t, r.Empty)
	assert.Equal(t, body, r.Body)
	assert.True(t, r.IsTerminal())
	assert.NoError(t, r.Err())
}

func TestSuspended(t *testing.T) {
	cont := NewElement("context", NewText("retry_count", "1"))
	r := Suspended(1500*time.Millisecond, cont)

	assert.Equal(t, KindSuspended, r.Kind)
	assert.Equal(t, int64(1500), r.DelayMillis)
	assert.Equal(t, 1500*time.Millisecond, r.Delay())
	assert.False(t, r.IsTerminal())
	assert.Equal(t, cont, r.Continuation)
}

func TestFailed(t *testing.T) {
	f := &Failure{Category: CategoryResponse, Message: "upstream 500"}
	r := Failed(f)

	assert.Equal(t, KindFailed, r.Kind)
	assert.True(t, r.IsTerminal())
	assert.Equal(t, f, r.Err())
}

func TestParseResultKind(t *testing.T) {
	for _, k := range []ResultKind{KindCompleted, KindSuspended, KindFailed} {
		got, err := ParseResultKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseResultKind("exploded")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
