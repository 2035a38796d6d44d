package continuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

func TestToken(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		doc := Encode(domain.ContinuationState{RemainingAttempts: 4}.WithField("step", "search"))

		token, err := EncodeToken(doc)
		require.NoError(t, err)
		assert.NotContains(t, token, "<")

		back, err := DecodeToken(token)
		require.NoError(t, err)
		require.NotNil(t, back)
		assert.Equal(t, doc, *back)
	})

	t.Run("empty token is no continuation", func(t *testing.T) {
		doc, err := DecodeToken("")

		assert.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("invalid tokens", func(t *testing.T) {
		for _, token := range []string{"!!!", "bm90IHhtbA"} {
			_, err := DecodeToken(token)
			assert.ErrorIs(t, err, domain.ErrInvalidContinuation, token)
		}
	})
}
