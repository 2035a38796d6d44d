package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_Valid(t *testing.T) {
	for _, c := range AllCategories() {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, ErrorCategory("Teapot").Valid())
	assert.False(t, ErrorCategory("").Valid())
	assert.Len(t, AllCategories(), 9)
}

func TestFailure_Error(t *testing.T) {
	t.Run("uses message", func(t *testing.T) {
		f := &Failure{Category: CategoryNetwork, Message: "connection refused"}
		assert.Equal(t, "NetworkError: connection refused", f.Error())
	})

	t.Run("falls back to description", func(t *testing.T) {
		f := &Failure{Category: CategoryDataConvert, Description: "bad json"}
		assert.Equal(t, "DataConvertError: bad json", f.Error())
	})

	t.Run("falls back to cause", func(t *testing.T) {
		f := &Failure{Category: CategoryInternal, Cause: errors.New("boom")}
		assert.Equal(t, "InternalError: boom", f.Error())
	})

	t.Run("category only", func(t *testing.T) {
		f := &Failure{Category: CategoryResponseEmpty}
		assert.Equal(t, "ResponseEmpty", f.Error())
	})
}

func TestFailure_UnwrapAndIs(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	f := &Failure{Category: CategoryNetwork, Message: "sending request", Cause: cause}

	assert.ErrorIs(t, f, cause)
	assert.ErrorIs(t, f, &Failure{Category: CategoryNetwork})
	assert.NotErrorIs(t, f, &Failure{Category: CategoryCrypto})

	wrapped := fmt.Errorf("invoking: %w", f)
	category, ok := CategoryOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, CategoryNetwork, category)

	_, ok = CategoryOf(cause)
	assert.False(t, ok)
}
