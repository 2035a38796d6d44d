package failure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

func TestBuilder(t *testing.T) {
	t.Run("builds failed result with all parts", func(t *testing.T) {
		cause := errors.New("boom")

		res := New(domain.CategoryResponse).
			Raw("upstream failed").
			Describe("longer").
			Cause(cause).
			Source("E42", "bad").
			Build()

		require.Equal(t, domain.KindFailed, res.Kind)
		f := res.Failure
		require.NotNil(t, f)
		assert.Equal(t, domain.CategoryResponse, f.Category)
		assert.Equal(t, "upstream failed", f.Message)
		assert.Equal(t, "longer", f.Description)
		assert.ErrorIs(t, f, cause)
		assert.Equal(t, &domain.SourceError{Code: "E42", Detail: "bad"}, f.Source)
	})

	t.Run("later source replaces earlier", func(t *testing.T) {
		f := New(domain.CategoryResponse).Source("a", "1").Source("b", "2").Err()

		assert.Equal(t, "b", f.Source.Code)
		assert.Equal(t, "2", f.Source.Detail)
	})

	t.Run("internal error always has a cause", func(t *testing.T) {
		f := New(domain.CategoryInternal).Raw("weird").Err()

		require.Error(t, f.Cause)
		assert.Equal(t, "weird", f.Cause.Error())

		f = Internal(nil).Err()
		assert.Error(t, f.Cause)
	})

	t.Run("builder can be reused without aliasing", func(t *testing.T) {
		b := New(domain.CategoryResponse).Source("a", "1")
		first := b.Err()
		b.Source("b", "2")

		assert.Equal(t, "a", first.Source.Code)
	})

	t.Run("validation helper", func(t *testing.T) {
		f := Validation("input is empty").Err()

		assert.Equal(t, domain.CategoryRequestParameterValidation, f.Category)
		assert.Equal(t, "input is empty", f.Message)
	})

	t.Run("rawf formats", func(t *testing.T) {
		f := New(domain.CategoryResponse).Rawf("status %d", 503).Err()

		assert.Equal(t, "status 503", f.Message)
	})
}
